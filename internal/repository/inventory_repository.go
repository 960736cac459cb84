package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billboards-ops/internal/model"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const contractColumns = `
	contract_number AS number,
	COALESCE(customer_name, '') AS customer_name,
	COALESCE(ad_type, '') AS ad_type,
	COALESCE(rent_cost, 0) AS rent_cost,
	COALESCE(installation_cost, 0) AS installation_cost,
	COALESCE(print_cost, 0) AS print_cost,
	COALESCE(include_installation_in_fee, FALSE) AS include_installation_in_fee,
	COALESCE(include_print_in_fee, FALSE) AS include_print_in_fee,
	COALESCE(rent_fee_rate, 0) AS rent_fee_rate,
	COALESCE(installation_fee_rate, 0) AS installation_fee_rate,
	COALESCE(print_fee_rate, 0) AS print_fee_rate,
	COALESCE(total_paid, 0) AS total_paid,
	start_date,
	end_date,
	COALESCE(status, '') AS status,
	COALESCE(billboard_ids, '') AS billboard_ids
`

type contractRow struct {
	model.Contract
	BillboardIDs string
}

func (r contractRow) toModel() model.Contract {
	c := r.Contract
	c.BillboardIDs = parseIDList(r.BillboardIDs)
	return c
}

func toContracts(rows []contractRow) []model.Contract {
	result := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result
}

func (r *InventoryRepository) ListContracts(ctx context.Context) ([]model.Contract, error) {
	var rows []contractRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+contractColumns+`
		FROM contracts
		ORDER BY contract_number ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toContracts(rows), nil
}

// ListContractsEndingBetween returns contracts whose end date is within [from, to].
func (r *InventoryRepository) ListContractsEndingBetween(ctx context.Context, from, to time.Time) ([]model.Contract, error) {
	var rows []contractRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+contractColumns+`
		FROM contracts
		WHERE end_date >= ? AND end_date <= ?
		ORDER BY end_date ASC, contract_number ASC
	`, from, to).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toContracts(rows), nil
}

func (r *InventoryRepository) ListContractsByNumbers(ctx context.Context, numbers []string) ([]model.Contract, error) {
	if len(numbers) == 0 {
		return []model.Contract{}, nil
	}
	var rows []contractRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+contractColumns+`
		FROM contracts
		WHERE contract_number IN ?
	`, numbers).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toContracts(rows), nil
}

const billboardColumns = `
	id,
	COALESCE(name, '') AS name,
	COALESCE(size, '') AS size,
	COALESCE(city, '') AS city,
	COALESCE(municipality, '') AS municipality,
	contract_number,
	rent_end_date,
	COALESCE(status, '') AS status,
	COALESCE(has_cutout, FALSE) AS has_cutout
`

func (r *InventoryRepository) ListBillboardsByIDs(ctx context.Context, ids []int64) ([]model.Billboard, error) {
	if len(ids) == 0 {
		return []model.Billboard{}, nil
	}
	var billboards []model.Billboard
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+billboardColumns+`
		FROM billboards
		WHERE id IN ?
		ORDER BY id ASC
	`, ids).Scan(&billboards).Error; err != nil {
		return nil, err
	}
	return billboards, nil
}

func (r *InventoryRepository) ListBillboardsByMunicipality(ctx context.Context, municipality string) ([]model.Billboard, error) {
	var billboards []model.Billboard
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+billboardColumns+`
		FROM billboards
		WHERE municipality = ?
		ORDER BY id ASC
	`, municipality).Scan(&billboards).Error; err != nil {
		return nil, err
	}
	return billboards, nil
}

// ResetBillboards marks billboards as available and clears their contract fields.
func (r *InventoryRepository) ResetBillboards(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Exec(`
		UPDATE billboards
		SET
			status = ?,
			contract_number = NULL,
			customer_name = NULL,
			ad_type = NULL,
			rent_start_date = NULL,
			rent_end_date = NULL
		WHERE id IN ?
	`, model.BillboardStatusAvailable, ids).Error
	return translateError(err)
}

func (r *InventoryRepository) ListTeams(ctx context.Context) ([]model.InstallationTeam, error) {
	var rows []struct {
		ID     uuid.UUID
		Name   string
		Sizes  string
		Cities string
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			COALESCE(array_to_string(sizes, ','), '') AS sizes,
			COALESCE(array_to_string(cities, ','), '') AS cities
		FROM installation_teams
		ORDER BY created_at ASC, name ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	teams := make([]model.InstallationTeam, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, model.InstallationTeam{
			ID:     row.ID,
			Name:   row.Name,
			Sizes:  splitList(row.Sizes),
			Cities: splitList(row.Cities),
		})
	}
	return teams, nil
}

// ListLatestInstallations returns the most recent installation line item per billboard.
func (r *InventoryRepository) ListLatestInstallations(ctx context.Context, billboardIDs []int64) (map[int64]model.InstallationRecord, error) {
	result := make(map[int64]model.InstallationRecord, len(billboardIDs))
	if len(billboardIDs) == 0 {
		return result, nil
	}
	var records []model.InstallationRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (billboard_id)
			billboard_id,
			design_face_a,
			design_face_b,
			installed_image_url,
			created_at
		FROM installation_task_items
		WHERE billboard_id IN ?
		ORDER BY billboard_id, created_at DESC
	`, billboardIDs).Scan(&records).Error; err != nil {
		return nil, err
	}
	for _, rec := range records {
		result[rec.BillboardID] = rec
	}
	return result, nil
}
