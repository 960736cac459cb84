package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/billboards-ops/internal/cache"
	"github.com/nurpe/billboards-ops/internal/config"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/removal"
	"github.com/nurpe/billboards-ops/internal/repository"
)

type RemovalService struct {
	inventory  repository.Inventory
	removals   repository.Removals
	processed  cache.ProcessedStore
	log        zerolog.Logger
	now        func() time.Time
	lookback   int
	autoCreate bool
}

func NewRemovalService(
	inventory repository.Inventory,
	removals repository.Removals,
	processed cache.ProcessedStore,
	cfg *config.Config,
	log zerolog.Logger,
) *RemovalService {
	return &RemovalService{
		inventory:  inventory,
		removals:   removals,
		processed:  processed,
		log:        log,
		now:        time.Now,
		lookback:   cfg.Removal.LookbackDays,
		autoCreate: cfg.Removal.AutoCreate,
	}
}

type AutoCreateResult struct {
	Created    []model.RemovalTask
	Skipped    map[string]removal.SkipReason
	Unassigned []int64
}

type CompleteItemsInput struct {
	TaskID      uuid.UUID
	ItemIDs     []uuid.UUID
	RemovalDate time.Time
	Principal   model.Principal
}

func (s *RemovalService) ListTasks(ctx context.Context, principal model.Principal, status string) ([]model.RemovalTask, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}
	var filter *model.RemovalTaskStatus
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		st := model.RemovalTaskStatus(status)
		switch st {
		case model.RemovalTaskPending, model.RemovalTaskInProgress, model.RemovalTaskCompleted, model.RemovalTaskCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		filter = &st
	}
	return s.removals.ListTasks(ctx, filter)
}

func (s *RemovalService) AutoCreate(ctx context.Context, principal model.Principal) (*AutoCreateResult, error) {
	if !principal.CanManageRemovals() {
		return nil, ErrPermissionDenied
	}
	return s.autoCreateTasks(ctx)
}

// RunScheduled is the worker entry point: cleanup first, then auto-creation when enabled.
func (s *RemovalService) RunScheduled(ctx context.Context) error {
	if _, err := s.cleanup(ctx); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	if !s.autoCreate {
		return nil
	}
	if _, err := s.autoCreateTasks(ctx); err != nil {
		return fmt.Errorf("auto create: %w", err)
	}
	return nil
}

func (s *RemovalService) autoCreateTasks(ctx context.Context) (*AutoCreateResult, error) {
	today := dateOnly(s.now())
	from := today.AddDate(0, 0, -s.lookback)

	contracts, err := s.inventory.ListContractsEndingBetween(ctx, from, today)
	if err != nil {
		return nil, err
	}
	result := &AutoCreateResult{Skipped: map[string]removal.SkipReason{}}
	if len(contracts) == 0 {
		return result, nil
	}

	activeContracts, err := s.removals.ListActiveTaskContracts(ctx)
	if err != nil {
		return nil, err
	}
	activeItems, err := s.removals.ListActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	processed := make(map[string]bool)
	for _, c := range contracts {
		seen, err := s.processed.Seen(ctx, c.Number)
		if err != nil {
			return nil, err
		}
		if seen {
			processed[c.Number] = true
		}
	}

	billboardIDs := collectBillboardIDs(contracts)
	billboards, err := s.inventory.ListBillboardsByIDs(ctx, billboardIDs)
	if err != nil {
		return nil, err
	}
	teams, err := s.inventory.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	installations, err := s.inventory.ListLatestInstallations(ctx, billboardIDs)
	if err != nil {
		return nil, err
	}

	plan := removal.BuildPlan(removal.PlanInput{
		Contracts:        contracts,
		Billboards:       indexBillboards(billboards),
		Teams:            teams,
		QueuedBillboards: queuedBillboards(activeItems),
		ActiveContracts:  toSet(activeContracts),
		Processed:        processed,
		Installations:    installations,
		Today:            today,
	})
	result.Skipped = plan.Skipped
	result.Unassigned = plan.Unassigned

	for _, tp := range plan.Tasks {
		items := make([]model.RemovalTaskItem, 0, len(tp.Items))
		for _, ip := range tp.Items {
			items = append(items, model.RemovalTaskItem{
				BillboardID:       ip.BillboardID,
				Status:            model.RemovalItemPending,
				DesignFaceA:       ip.DesignFaceA,
				DesignFaceB:       ip.DesignFaceB,
				InstalledImageURL: ip.InstalledImageURL,
			})
		}
		task, err := s.removals.CreateTask(ctx, model.RemovalTask{
			ContractNumbers: []string{tp.ContractNumber},
			TeamID:          tp.TeamID,
			Status:          model.RemovalTaskPending,
		}, items)
		if err != nil {
			return result, fmt.Errorf("create removal task for contract %s: %w", tp.ContractNumber, err)
		}
		task.Items = items
		result.Created = append(result.Created, *task)
	}

	for _, number := range plan.Considered {
		if err := s.processed.Mark(ctx, number); err != nil {
			s.log.Warn().Err(err).Str("contract_number", number).Msg("failed to mark contract processed")
		}
	}

	if len(plan.Unassigned) > 0 {
		s.log.Warn().Ints64("billboard_ids", plan.Unassigned).Msg("no team handles billboard size")
	}
	s.log.Info().
		Int("contracts", len(contracts)).
		Int("tasks_created", len(result.Created)).
		Msg("removal tasks auto-created")
	return result, nil
}

func (s *RemovalService) Cleanup(ctx context.Context, principal model.Principal) (int, error) {
	if !principal.CanManageRemovals() {
		return 0, ErrPermissionDenied
	}
	return s.cleanup(ctx)
}

// cleanup deletes pending items whose billboard was rented again after the task
// was queued.
func (s *RemovalService) cleanup(ctx context.Context) (int, error) {
	items, err := s.removals.ListActiveItems(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.Status == model.RemovalItemPending {
			ids = append(ids, item.BillboardID)
		}
	}
	billboards, err := s.inventory.ListBillboardsByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	stale := removal.StaleItems(items, indexBillboards(billboards), s.now())
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.removals.DeleteItems(ctx, stale); err != nil {
		return 0, err
	}
	s.log.Info().Int("items", len(stale)).Msg("removed stale removal items")

	if err := s.settleTasks(ctx, affectedTasks(items, stale)); err != nil {
		return len(stale), err
	}
	return len(stale), nil
}

// settleTasks re-evaluates tasks that lost items: a task whose remaining items are
// all completed is completed, and a task left empty is cancelled.
func (s *RemovalService) settleTasks(ctx context.Context, taskIDs []uuid.UUID) error {
	for _, taskID := range taskIDs {
		remaining, err := s.removals.ListTaskItems(ctx, taskID)
		if err != nil {
			return err
		}
		status, ok := removal.StatusAfterPrune(remaining)
		if !ok {
			continue
		}
		if err := s.removals.UpdateTaskStatus(ctx, taskID, status); err != nil {
			return err
		}
		s.log.Info().
			Str("task_id", taskID.String()).
			Str("status", string(status)).
			Msg("removal task settled after cleanup")
	}
	return nil
}

func affectedTasks(items []model.ActiveRemovalItem, deleted []uuid.UUID) []uuid.UUID {
	gone := toUUIDSet(deleted)
	seen := make(map[uuid.UUID]bool)
	var taskIDs []uuid.UUID
	for _, item := range items {
		if !gone[item.ID] || seen[item.TaskID] {
			continue
		}
		seen[item.TaskID] = true
		taskIDs = append(taskIDs, item.TaskID)
	}
	return taskIDs
}

func (s *RemovalService) CompleteItems(ctx context.Context, input CompleteItemsInput) (*model.RemovalTask, error) {
	if !input.Principal.CanManageRemovals() {
		return nil, ErrPermissionDenied
	}
	if input.TaskID == uuid.Nil {
		return nil, fmt.Errorf("%w: task_id is required", ErrInvalidInput)
	}
	if len(input.ItemIDs) == 0 {
		return nil, fmt.Errorf("%w: no items selected", ErrInvalidInput)
	}
	if input.RemovalDate.IsZero() {
		return nil, fmt.Errorf("%w: removal_date is required", ErrInvalidInput)
	}

	task, err := s.removals.GetTask(ctx, input.TaskID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if task.Status == model.RemovalTaskCancelled {
		return nil, fmt.Errorf("%w: task is cancelled", ErrInvalidInput)
	}

	items, err := s.removals.ListTaskItems(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	selected := toUUIDSet(input.ItemIDs)
	var pendingIDs []uuid.UUID
	var billboardIDs []int64
	matched := 0
	for _, item := range items {
		if !selected[item.ID] {
			continue
		}
		matched++
		if item.Status == model.RemovalItemPending {
			pendingIDs = append(pendingIDs, item.ID)
			billboardIDs = append(billboardIDs, item.BillboardID)
		}
	}
	if matched != len(selected) {
		return nil, fmt.Errorf("%w: items do not belong to task", ErrInvalidInput)
	}
	if len(pendingIDs) == 0 {
		task.Items = items
		return task, nil
	}

	removalDate := dateOnly(input.RemovalDate)
	completedAt := s.now()
	if _, err := s.removals.CompleteItems(ctx, task.ID, pendingIDs, removalDate, completedAt); err != nil {
		return nil, err
	}
	if err := s.inventory.ResetBillboards(ctx, billboardIDs); err != nil {
		return nil, err
	}

	done := toUUIDSet(pendingIDs)
	for i := range items {
		if done[items[i].ID] {
			items[i].Status = model.RemovalItemCompleted
			items[i].RemovalDate = &removalDate
			items[i].CompletedAt = &completedAt
		}
	}
	if removal.TaskCompleted(items) && task.Status != model.RemovalTaskCompleted {
		if err := s.removals.UpdateTaskStatus(ctx, task.ID, model.RemovalTaskCompleted); err != nil {
			return nil, err
		}
		task.Status = model.RemovalTaskCompleted
	}
	task.Items = items

	s.log.Info().
		Str("task_id", task.ID.String()).
		Int("items", len(pendingIDs)).
		Str("status", string(task.Status)).
		Msg("removal items completed")
	return task, nil
}

// UndoItem reverts a completed item to pending and reopens its task.
func (s *RemovalService) UndoItem(ctx context.Context, principal model.Principal, itemID uuid.UUID) (*model.RemovalTask, error) {
	if !principal.CanManageRemovals() {
		return nil, ErrPermissionDenied
	}

	item, err := s.removals.GetItem(ctx, itemID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if item.Status != model.RemovalItemCompleted {
		return nil, fmt.Errorf("%w: item is not completed", ErrInvalidInput)
	}
	if err := s.removals.RevertItem(ctx, item.ID); err != nil {
		return nil, mapNotFound(err)
	}

	task, err := s.removals.GetTask(ctx, item.TaskID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if task.Status == model.RemovalTaskCompleted {
		if err := s.removals.UpdateTaskStatus(ctx, task.ID, model.RemovalTaskPending); err != nil {
			return nil, err
		}
		task.Status = model.RemovalTaskPending
	}
	return task, nil
}

// TaskDetail is a task with its items, the contracts it was created for and the
// current state of its billboards.
type TaskDetail struct {
	Task       model.RemovalTask
	Contracts  []model.Contract
	Billboards []model.Billboard
}

func (s *RemovalService) GetTask(ctx context.Context, principal model.Principal, id uuid.UUID) (*TaskDetail, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}
	task, err := s.removals.GetTask(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	items, err := s.removals.ListTaskItems(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Items = items

	contracts, err := s.inventory.ListContractsByNumbers(ctx, task.ContractNumbers)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.BillboardID)
	}
	billboards, err := s.inventory.ListBillboardsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{Task: *task, Contracts: contracts, Billboards: billboards}, nil
}

// ListBillboards returns the billboards of a municipality for dispatch planning.
func (s *RemovalService) ListBillboards(ctx context.Context, principal model.Principal, municipality string) ([]model.Billboard, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}
	municipality = strings.TrimSpace(municipality)
	if municipality == "" {
		return nil, fmt.Errorf("%w: municipality is required", ErrInvalidInput)
	}
	return s.inventory.ListBillboardsByMunicipality(ctx, municipality)
}

func collectBillboardIDs(contracts []model.Contract) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, c := range contracts {
		for _, id := range c.BillboardIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func indexBillboards(billboards []model.Billboard) map[int64]model.Billboard {
	index := make(map[int64]model.Billboard, len(billboards))
	for _, b := range billboards {
		index[b.ID] = b
	}
	return index
}

func queuedBillboards(items []model.ActiveRemovalItem) map[int64]bool {
	queued := make(map[int64]bool, len(items))
	for _, item := range items {
		queued[item.BillboardID] = true
	}
	return queued
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func toUUIDSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
