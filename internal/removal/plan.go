package removal

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/billboards-ops/internal/model"
)

type PlanInput struct {
	Contracts  []model.Contract
	Billboards map[int64]model.Billboard
	Teams      []model.InstallationTeam
	// QueuedBillboards holds billboards already present in pending or in-progress tasks.
	QueuedBillboards map[int64]bool
	// ActiveContracts holds contract numbers already attached to an active task.
	ActiveContracts map[string]bool
	// Processed holds contracts handled earlier in the current process.
	Processed     map[string]bool
	Installations map[int64]model.InstallationRecord
	Today         time.Time
}

type ItemPlan struct {
	BillboardID       int64
	DesignFaceA       *string
	DesignFaceB       *string
	InstalledImageURL *string
}

type TaskPlan struct {
	ContractNumber string
	TeamID         uuid.UUID
	Items          []ItemPlan
}

type SkipReason string

const (
	SkipNotExpired    SkipReason = "not_expired"
	SkipActiveTask    SkipReason = "active_task"
	SkipProcessed     SkipReason = "processed"
	SkipNoBillboards  SkipReason = "no_eligible_billboards"
	SkipNoTeamMatched SkipReason = "no_team"
)

type Plan struct {
	Tasks []TaskPlan
	// Skipped maps contract numbers to the reason no task was planned.
	Skipped map[string]SkipReason
	// Unassigned lists billboards for which no team handles the size.
	Unassigned []int64
	// Considered lists contracts that were evaluated and should be marked processed.
	Considered []string
}

// BuildPlan groups the eligible billboards of every expired contract by the best
// matching team. Billboards planned earlier in the same run are not planned again.
func BuildPlan(in PlanInput) Plan {
	plan := Plan{Skipped: make(map[string]SkipReason)}

	queued := make(map[int64]bool, len(in.QueuedBillboards))
	for id, ok := range in.QueuedBillboards {
		queued[id] = ok
	}

	for _, c := range in.Contracts {
		switch {
		case !IsExpired(c, in.Today):
			plan.Skipped[c.Number] = SkipNotExpired
			continue
		case in.ActiveContracts[c.Number]:
			plan.Skipped[c.Number] = SkipActiveTask
			continue
		case in.Processed[c.Number]:
			plan.Skipped[c.Number] = SkipProcessed
			continue
		}
		plan.Considered = append(plan.Considered, c.Number)

		billboards := make([]model.Billboard, 0, len(c.BillboardIDs))
		seen := make(map[int64]bool, len(c.BillboardIDs))
		for _, id := range c.BillboardIDs {
			b, ok := in.Billboards[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			billboards = append(billboards, b)
		}

		eligible := EligibleBillboards(c.Number, billboards, queued, in.Today)
		if len(eligible) == 0 {
			plan.Skipped[c.Number] = SkipNoBillboards
			continue
		}

		var order []uuid.UUID
		groups := make(map[uuid.UUID]*TaskPlan)
		for _, b := range eligible {
			team, ok := BestTeam(in.Teams, b)
			if !ok {
				plan.Unassigned = append(plan.Unassigned, b.ID)
				continue
			}
			group, exists := groups[team.ID]
			if !exists {
				group = &TaskPlan{ContractNumber: c.Number, TeamID: team.ID}
				groups[team.ID] = group
				order = append(order, team.ID)
			}
			group.Items = append(group.Items, itemFor(b.ID, in.Installations))
			queued[b.ID] = true
		}

		if len(order) == 0 {
			plan.Skipped[c.Number] = SkipNoTeamMatched
			continue
		}
		for _, teamID := range order {
			plan.Tasks = append(plan.Tasks, *groups[teamID])
		}
	}
	return plan
}

func itemFor(billboardID int64, installations map[int64]model.InstallationRecord) ItemPlan {
	item := ItemPlan{BillboardID: billboardID}
	if rec, ok := installations[billboardID]; ok {
		item.DesignFaceA = rec.DesignFaceA
		item.DesignFaceB = rec.DesignFaceB
		item.InstalledImageURL = rec.InstalledImageURL
	}
	return item
}
