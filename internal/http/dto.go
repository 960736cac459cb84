package http

import (
	"time"

	"github.com/nurpe/billboards-ops/internal/ledger"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/service"
)

const dateLayout = "2006-01-02"

type contractLineResponse struct {
	ContractNumber       string  `json:"contract_number"`
	CustomerName         string  `json:"customer_name"`
	AdType               string  `json:"ad_type"`
	StartDate            *string `json:"start_date"`
	TotalAmount          float64 `json:"total_amount"`
	TotalPaid            float64 `json:"total_paid"`
	CollectionRatio      float64 `json:"collection_ratio"`
	CollectionPercentage float64 `json:"collection_percentage"`
	FullFeeAmount        float64 `json:"full_fee_amount"`
	CollectedFeeAmount   float64 `json:"collected_fee_amount"`
	Withdrawn            float64 `json:"withdrawn"`
	WithdrawalCoverage   float64 `json:"withdrawal_coverage_percentage"`
	Settled              bool    `json:"settled"`
	ClosureID            *string `json:"closure_id"`
}

type closureResponse struct {
	ID               string   `json:"id"`
	Type             string   `json:"closure_type"`
	ClosureDate      string   `json:"closure_date"`
	PeriodStart      *string  `json:"period_start"`
	PeriodEnd        *string  `json:"period_end"`
	ContractStart    *int64   `json:"contract_start"`
	ContractEnd      *int64   `json:"contract_end"`
	Notes            *string  `json:"notes"`
	ContractNumbers  []string `json:"contract_numbers"`
	TotalContracts   int      `json:"total_contracts"`
	TotalAmount      float64  `json:"total_amount"`
	TotalWithdrawn   float64  `json:"total_withdrawn"`
	RemainingBalance float64  `json:"remaining_balance"`
}

type openSummaryResponse struct {
	Contracts   int     `json:"contracts"`
	TotalFees   float64 `json:"total_fees"`
	Allocated   float64 `json:"allocated"`
	Balance     float64 `json:"balance"`
	Pool        float64 `json:"pool"`
	Unallocated float64 `json:"unallocated"`
}

type reportResponse struct {
	Contracts         []contractLineResponse `json:"contracts"`
	Closures          []closureResponse      `json:"closures"`
	Open              openSummaryResponse    `json:"open"`
	TotalWithdrawals  float64                `json:"total_withdrawals"`
	ClosedWithdrawn   float64                `json:"closed_withdrawn"`
	SettledContracts  []string               `json:"settled_contract_ids"`
	ExcludedContracts []string               `json:"excluded_contracts"`
}

type withdrawalResponse struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"`
	Method    *string   `json:"method"`
	Note      *string   `json:"note"`
	Receiver  *string   `json:"receiver"`
	Sender    *string   `json:"sender"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ledgerChangeResponse struct {
	Withdrawal *withdrawalResponse `json:"withdrawal,omitempty"`
	Closure    *closureResponse    `json:"closure,omitempty"`
	Report     reportResponse      `json:"report"`
}

type removalItemResponse struct {
	ID                string     `json:"id"`
	BillboardID       int64      `json:"billboard_id"`
	Status            string     `json:"status"`
	CompletedAt       *time.Time `json:"completed_at"`
	RemovalDate       *string    `json:"removal_date"`
	Notes             *string    `json:"notes"`
	DesignFaceA       *string    `json:"design_face_a"`
	DesignFaceB       *string    `json:"design_face_b"`
	InstalledImageURL *string    `json:"installed_image_url"`
	RemovedImageURL   *string    `json:"removed_image_url"`
}

type removalTaskResponse struct {
	ID              string                `json:"id"`
	ContractNumbers []string              `json:"contract_numbers"`
	TeamID          string                `json:"team_id"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []removalItemResponse `json:"items"`
}

type autoCreateResponse struct {
	Created    []removalTaskResponse `json:"created"`
	Skipped    map[string]string     `json:"skipped"`
	Unassigned []int64               `json:"unassigned_billboard_ids"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toReportResponse(r *ledger.Report) reportResponse {
	resp := reportResponse{
		Contracts:         make([]contractLineResponse, 0, len(r.Lines)),
		Closures:          make([]closureResponse, 0, len(r.Closures)),
		TotalWithdrawals:  r.TotalWithdrawals,
		ClosedWithdrawn:   r.ClosedWithdrawn,
		SettledContracts:  make([]string, 0, len(r.Settled)),
		ExcludedContracts: r.Excluded,
		Open: openSummaryResponse{
			Contracts:   r.Open.Contracts,
			TotalFees:   r.Open.TotalFees,
			Allocated:   r.Open.Allocated,
			Balance:     r.Open.Balance,
			Pool:        r.Open.Pool,
			Unallocated: r.Open.Unallocated,
		},
	}
	if resp.ExcludedContracts == nil {
		resp.ExcludedContracts = []string{}
	}

	for _, line := range r.Lines {
		item := contractLineResponse{
			ContractNumber:       line.Contract.Number,
			CustomerName:         line.Contract.CustomerName,
			AdType:               line.Contract.AdType,
			StartDate:            formatDatePtr(line.Contract.StartDate),
			TotalAmount:          line.TotalAmount,
			TotalPaid:            line.Contract.TotalPaid,
			CollectionRatio:      line.CollectionRatio,
			CollectionPercentage: line.CollectionPercentage,
			FullFeeAmount:        line.FullFee,
			CollectedFeeAmount:   line.CollectedFee,
			Withdrawn:            line.Allocated,
			WithdrawalCoverage:   line.CoveragePercentage,
			Settled:              line.Settled,
		}
		if line.ClosureID != nil {
			id := line.ClosureID.String()
			item.ClosureID = &id
		}
		if line.Settled {
			resp.SettledContracts = append(resp.SettledContracts, line.Contract.Number)
		}
		resp.Contracts = append(resp.Contracts, item)
	}

	for _, summary := range r.Closures {
		cl := toClosureResponse(summary.Closure)
		cl.ContractNumbers = summary.ContractNumbers
		if cl.ContractNumbers == nil {
			cl.ContractNumbers = []string{}
		}
		cl.TotalContracts = summary.TotalContracts
		cl.TotalAmount = summary.TotalAmount
		cl.TotalWithdrawn = summary.TotalWithdrawn
		cl.RemainingBalance = summary.RemainingBalance
		resp.Closures = append(resp.Closures, cl)
	}
	return resp
}

func toClosureResponse(c model.PeriodClosure) closureResponse {
	return closureResponse{
		ID:              c.ID.String(),
		Type:            string(c.Type),
		ClosureDate:     c.ClosureDate.Format(dateLayout),
		PeriodStart:     formatDatePtr(c.PeriodStart),
		PeriodEnd:       formatDatePtr(c.PeriodEnd),
		ContractStart:   c.ContractStart,
		ContractEnd:     c.ContractEnd,
		Notes:           c.Notes,
		ContractNumbers: []string{},
	}
}

func toWithdrawalResponse(w model.Withdrawal) withdrawalResponse {
	resp := withdrawalResponse{
		ID:        w.ID.String(),
		Amount:    w.Amount,
		Date:      w.Date.Format(dateLayout),
		Method:    w.Method,
		Note:      w.Note,
		Receiver:  w.Receiver,
		Sender:    w.Sender,
		CreatedAt: w.CreatedAt,
	}
	if w.CreatedBy != nil {
		id := w.CreatedBy.String()
		resp.CreatedBy = &id
	}
	return resp
}

func toLedgerChangeResponse(change *service.LedgerChange) ledgerChangeResponse {
	resp := ledgerChangeResponse{Report: toReportResponse(change.Report)}
	if change.Withdrawal != nil {
		w := toWithdrawalResponse(*change.Withdrawal)
		resp.Withdrawal = &w
	}
	if change.Closure != nil {
		cl := toClosureResponse(*change.Closure)
		resp.Closure = &cl
	}
	return resp
}

func toRemovalTaskResponse(task model.RemovalTask) removalTaskResponse {
	resp := removalTaskResponse{
		ID:              task.ID.String(),
		ContractNumbers: task.ContractNumbers,
		TeamID:          task.TeamID.String(),
		Status:          string(task.Status),
		CreatedAt:       task.CreatedAt,
		Items:           make([]removalItemResponse, 0, len(task.Items)),
	}
	if resp.ContractNumbers == nil {
		resp.ContractNumbers = []string{}
	}
	for _, item := range task.Items {
		resp.Items = append(resp.Items, removalItemResponse{
			ID:                item.ID.String(),
			BillboardID:       item.BillboardID,
			Status:            string(item.Status),
			CompletedAt:       item.CompletedAt,
			RemovalDate:       formatDatePtr(item.RemovalDate),
			Notes:             item.Notes,
			DesignFaceA:       item.DesignFaceA,
			DesignFaceB:       item.DesignFaceB,
			InstalledImageURL: item.InstalledImageURL,
			RemovedImageURL:   item.RemovedImageURL,
		})
	}
	return resp
}

func toRemovalTaskResponses(tasks []model.RemovalTask) []removalTaskResponse {
	result := make([]removalTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, toRemovalTaskResponse(task))
	}
	return result
}

type billboardResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Size           string  `json:"size"`
	City           string  `json:"city"`
	Municipality   string  `json:"municipality"`
	ContractNumber *string `json:"contract_number"`
	RentEndDate    *string `json:"rent_end_date"`
	Status         string  `json:"status"`
	HasCutout      bool    `json:"has_cutout"`
}

type taskContractResponse struct {
	ContractNumber string  `json:"contract_number"`
	CustomerName   string  `json:"customer_name"`
	AdType         string  `json:"ad_type"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
}

type taskDetailResponse struct {
	removalTaskResponse
	Contracts  []taskContractResponse `json:"contracts"`
	Billboards []billboardResponse    `json:"billboards"`
}

func toBillboardResponses(billboards []model.Billboard) []billboardResponse {
	result := make([]billboardResponse, 0, len(billboards))
	for _, b := range billboards {
		result = append(result, billboardResponse{
			ID:             b.ID,
			Name:           b.Name,
			Size:           b.Size,
			City:           b.City,
			Municipality:   b.Municipality,
			ContractNumber: b.ContractNumber,
			RentEndDate:    formatDatePtr(b.RentEndDate),
			Status:         b.Status,
			HasCutout:      b.HasCutout,
		})
	}
	return result
}

func toTaskDetailResponse(detail *service.TaskDetail) taskDetailResponse {
	resp := taskDetailResponse{
		removalTaskResponse: toRemovalTaskResponse(detail.Task),
		Contracts:           make([]taskContractResponse, 0, len(detail.Contracts)),
		Billboards:          toBillboardResponses(detail.Billboards),
	}
	for _, c := range detail.Contracts {
		resp.Contracts = append(resp.Contracts, taskContractResponse{
			ContractNumber: c.Number,
			CustomerName:   c.CustomerName,
			AdType:         c.AdType,
			StartDate:      formatDatePtr(c.StartDate),
			EndDate:        formatDatePtr(c.EndDate),
		})
	}
	return resp
}
