package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billboards-ops/internal/model"
)

type RemovalRepository struct {
	db *gorm.DB
}

func NewRemovalRepository(db *gorm.DB) *RemovalRepository {
	return &RemovalRepository{db: db}
}

var activeTaskStatuses = []model.RemovalTaskStatus{
	model.RemovalTaskPending,
	model.RemovalTaskInProgress,
}

const taskColumns = `
	id,
	COALESCE(array_to_string(contract_numbers, ','), '') AS contract_numbers,
	team_id,
	status,
	created_at
`

const itemColumns = `
	id,
	task_id,
	billboard_id,
	status,
	completed_at,
	removal_date,
	notes,
	design_face_a,
	design_face_b,
	installed_image_url,
	removed_image_url
`

type taskRow struct {
	model.RemovalTask
	ContractNumbers string
}

func (r taskRow) toModel() model.RemovalTask {
	task := r.RemovalTask
	task.ContractNumbers = splitList(r.ContractNumbers)
	return task
}

// ListActiveItems returns the items of every pending or in-progress task.
func (r *RemovalRepository) ListActiveItems(ctx context.Context) ([]model.ActiveRemovalItem, error) {
	var items []model.ActiveRemovalItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.task_id,
			i.billboard_id,
			i.status,
			i.completed_at,
			i.removal_date,
			i.notes,
			i.design_face_a,
			i.design_face_b,
			i.installed_image_url,
			i.removed_image_url,
			t.status AS task_status
		FROM removal_task_items i
		JOIN removal_tasks t ON t.id = i.task_id
		WHERE t.status IN ?
		ORDER BY i.billboard_id ASC
	`, activeTaskStatuses).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListActiveTaskContracts returns contract numbers attached to pending or in-progress tasks.
func (r *RemovalRepository) ListActiveTaskContracts(ctx context.Context) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT unnest(contract_numbers)
		FROM removal_tasks
		WHERE status IN ?
	`, activeTaskStatuses).Scan(&numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// CreateTask inserts a task and its items in one transaction.
func (r *RemovalRepository) CreateTask(ctx context.Context, task model.RemovalTask, items []model.RemovalTaskItem) (*model.RemovalTask, error) {
	var saved taskRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(`
			INSERT INTO removal_tasks (contract_numbers, team_id, status)
			VALUES (string_to_array(?, ','), ?, ?)
			RETURNING`+taskColumns,
			strings.Join(task.ContractNumbers, ","),
			task.TeamID,
			task.Status,
		).Scan(&saved).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.Exec(`
				INSERT INTO removal_task_items (
					task_id,
					billboard_id,
					status,
					notes,
					design_face_a,
					design_face_b,
					installed_image_url
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				saved.ID,
				item.BillboardID,
				item.Status,
				item.Notes,
				item.DesignFaceA,
				item.DesignFaceB,
				item.InstalledImageURL,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	created := saved.toModel()
	return &created, nil
}

func (r *RemovalRepository) ListTasks(ctx context.Context, status *model.RemovalTaskStatus) ([]model.RemovalTask, error) {
	query := `
		SELECT` + taskColumns + `
		FROM removal_tasks
	`
	var args []interface{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	var rows []taskRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.RemovalTask{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var items []model.RemovalTaskItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+itemColumns+`
		FROM removal_task_items
		WHERE task_id IN ?
		ORDER BY billboard_id ASC
	`, ids).Scan(&items).Error; err != nil {
		return nil, err
	}
	byTask := make(map[uuid.UUID][]model.RemovalTaskItem, len(rows))
	for _, item := range items {
		byTask[item.TaskID] = append(byTask[item.TaskID], item)
	}

	tasks := make([]model.RemovalTask, 0, len(rows))
	for _, row := range rows {
		task := row.toModel()
		task.Items = byTask[task.ID]
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *RemovalRepository) GetTask(ctx context.Context, id uuid.UUID) (*model.RemovalTask, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+taskColumns+`
		FROM removal_tasks
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	task := row.toModel()
	return &task, nil
}

func (r *RemovalRepository) ListTaskItems(ctx context.Context, taskID uuid.UUID) ([]model.RemovalTaskItem, error) {
	var items []model.RemovalTaskItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+itemColumns+`
		FROM removal_task_items
		WHERE task_id = ?
		ORDER BY billboard_id ASC
	`, taskID).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RemovalRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.RemovalTaskItem, error) {
	var item model.RemovalTaskItem
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+itemColumns+`
		FROM removal_task_items
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

// CompleteItems completes the pending items of a task and returns how many changed.
func (r *RemovalRepository) CompleteItems(
	ctx context.Context,
	taskID uuid.UUID,
	itemIDs []uuid.UUID,
	removalDate, completedAt time.Time,
) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec(`
		UPDATE removal_task_items
		SET
			status = ?,
			removal_date = ?,
			completed_at = ?
		WHERE task_id = ? AND id IN ? AND status = ?
	`, model.RemovalItemCompleted, removalDate, completedAt, taskID, itemIDs, model.RemovalItemPending)
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return res.RowsAffected, nil
}

// RevertItem puts an item back to pending and clears its completion fields.
func (r *RemovalRepository) RevertItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE removal_task_items
		SET
			status = ?,
			removal_date = NULL,
			completed_at = NULL
		WHERE id = ?
	`, model.RemovalItemPending, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RemovalRepository) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.RemovalTaskStatus) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE removal_tasks
		SET status = ?
		WHERE id = ?
	`, status, id).Error
	return translateError(err)
}

func (r *RemovalRepository) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Exec(`DELETE FROM removal_task_items WHERE id IN ?`, ids).Error
	return translateError(err)
}
