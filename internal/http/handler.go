package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/billboards-ops/internal/http/middleware"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/service"
)

type Handler struct {
	ledger   *service.LedgerService
	removals *service.RemovalService
	log      zerolog.Logger
}

func NewHandler(ledger *service.LedgerService, removals *service.RemovalService, log zerolog.Logger) *Handler {
	return &Handler{ledger: ledger, removals: removals, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.GET("/overview", h.overview)
	ledgerGroup.POST("/withdrawals", h.createWithdrawal)
	ledgerGroup.PUT("/withdrawals/:id", h.updateWithdrawal)
	ledgerGroup.DELETE("/withdrawals/:id", h.deleteWithdrawal)
	ledgerGroup.POST("/closures", h.createClosure)
	ledgerGroup.DELETE("/closures/:id", h.deleteClosure)
	ledgerGroup.PUT("/exclusions/:contract_number", h.setExclusion)

	removalGroup := protected.Group("/removal")
	removalGroup.GET("/tasks", h.listTasks)
	removalGroup.GET("/tasks/:id", h.getTask)
	removalGroup.GET("/billboards", h.listBillboards)
	removalGroup.POST("/tasks/auto", h.autoCreateTasks)
	removalGroup.POST("/tasks/:id/complete", h.completeItems)
	removalGroup.POST("/items/:id/undo", h.undoItem)
	removalGroup.POST("/cleanup", h.cleanup)
}

type withdrawalRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Method   *string `json:"method"`
	Note     *string `json:"note"`
	Receiver *string `json:"receiver"`
	Sender   *string `json:"sender"`
}

type closureRequest struct {
	Type          string  `json:"closure_type" binding:"required"`
	ClosureDate   *string `json:"closure_date"`
	PeriodStart   *string `json:"period_start"`
	PeriodEnd     *string `json:"period_end"`
	ContractStart *int64  `json:"contract_start"`
	ContractEnd   *int64  `json:"contract_end"`
	Notes         *string `json:"notes"`
}

type exclusionRequest struct {
	Excluded *bool `json:"excluded" binding:"required"`
}

type completeItemsRequest struct {
	ItemIDs     []string `json:"item_ids" binding:"required"`
	RemovalDate string   `json:"removal_date" binding:"required"`
}

func principalOrAbort(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) overview(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	report, err := h.ledger.Overview(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "ledger overview failed")
		return
	}
	c.JSON(http.StatusOK, toReportResponse(report))
}

func (h *Handler) bindWithdrawal(c *gin.Context, principal model.Principal) (service.WithdrawalInput, bool) {
	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return service.WithdrawalInput{}, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return service.WithdrawalInput{}, false
	}
	return service.WithdrawalInput{
		Amount:    req.Amount,
		Date:      date,
		Method:    req.Method,
		Note:      req.Note,
		Receiver:  req.Receiver,
		Sender:    req.Sender,
		Principal: principal,
	}, true
}

func (h *Handler) createWithdrawal(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	input, ok := h.bindWithdrawal(c, principal)
	if !ok {
		return
	}
	change, err := h.ledger.CreateWithdrawal(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err, "create withdrawal failed")
		return
	}
	c.JSON(http.StatusCreated, toLedgerChangeResponse(change))
}

func (h *Handler) updateWithdrawal(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	input, ok := h.bindWithdrawal(c, principal)
	if !ok {
		return
	}
	change, err := h.ledger.UpdateWithdrawal(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err, "update withdrawal failed")
		return
	}
	c.JSON(http.StatusOK, toLedgerChangeResponse(change))
}

func (h *Handler) deleteWithdrawal(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	change, err := h.ledger.DeleteWithdrawal(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err, "delete withdrawal failed")
		return
	}
	c.JSON(http.StatusOK, toLedgerChangeResponse(change))
}

func (h *Handler) createClosure(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req closureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	closureDate, err := parseOptionalDate(req.ClosureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid closure_date"})
		return
	}
	periodStart, err := parseOptionalDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
		return
	}
	periodEnd, err := parseOptionalDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
		return
	}

	input := service.ClosureInput{
		Type:          model.ClosureType(strings.ToLower(strings.TrimSpace(req.Type))),
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		ContractStart: req.ContractStart,
		ContractEnd:   req.ContractEnd,
		Notes:         req.Notes,
		Principal:     principal,
	}
	if closureDate != nil {
		input.ClosureDate = *closureDate
	}

	change, err := h.ledger.CreateClosure(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err, "create closure failed")
		return
	}
	c.JSON(http.StatusCreated, toLedgerChangeResponse(change))
}

func (h *Handler) deleteClosure(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	change, err := h.ledger.DeleteClosure(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err, "delete closure failed")
		return
	}
	c.JSON(http.StatusOK, toLedgerChangeResponse(change))
}

func (h *Handler) setExclusion(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var req exclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change, err := h.ledger.SetExclusion(c.Request.Context(), principal, c.Param("contract_number"), *req.Excluded)
	if err != nil {
		h.handleError(c, err, "set exclusion failed")
		return
	}
	c.JSON(http.StatusOK, toLedgerChangeResponse(change))
}

func (h *Handler) listTasks(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	tasks, err := h.removals.ListTasks(c.Request.Context(), principal, c.Query("status"))
	if err != nil {
		h.handleError(c, err, "list removal tasks failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toRemovalTaskResponses(tasks)})
}

func (h *Handler) getTask(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	detail, err := h.removals.GetTask(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err, "get removal task failed")
		return
	}
	c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

func (h *Handler) listBillboards(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	billboards, err := h.removals.ListBillboards(c.Request.Context(), principal, c.Query("municipality"))
	if err != nil {
		h.handleError(c, err, "list billboards failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toBillboardResponses(billboards)})
}

func (h *Handler) autoCreateTasks(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	result, err := h.removals.AutoCreate(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "auto create removal tasks failed")
		return
	}

	skipped := make(map[string]string, len(result.Skipped))
	for number, reason := range result.Skipped {
		skipped[number] = string(reason)
	}
	unassigned := result.Unassigned
	if unassigned == nil {
		unassigned = []int64{}
	}
	c.JSON(http.StatusOK, autoCreateResponse{
		Created:    toRemovalTaskResponses(result.Created),
		Skipped:    skipped,
		Unassigned: unassigned,
	})
}

func (h *Handler) completeItems(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req completeItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_ids"})
			return
		}
		itemIDs = append(itemIDs, id)
	}
	removalDate, err := parseDate(req.RemovalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid removal_date"})
		return
	}

	task, err := h.removals.CompleteItems(c.Request.Context(), service.CompleteItemsInput{
		TaskID:      taskID,
		ItemIDs:     itemIDs,
		RemovalDate: removalDate,
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err, "complete removal items failed")
		return
	}
	c.JSON(http.StatusOK, toRemovalTaskResponse(*task))
}

func (h *Handler) undoItem(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	task, err := h.removals.UndoItem(c.Request.Context(), principal, itemID)
	if err != nil {
		h.handleError(c, err, "undo removal item failed")
		return
	}
	c.JSON(http.StatusOK, toRemovalTaskResponse(*task))
}

func (h *Handler) cleanup(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	removed, err := h.removals.Cleanup(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err, "removal cleanup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		dateLayout,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
