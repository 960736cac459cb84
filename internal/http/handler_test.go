package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/billboards-ops/internal/cache"
	"github.com/nurpe/billboards-ops/internal/config"
	"github.com/nurpe/billboards-ops/internal/http/middleware"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/repository/mocks"
	"github.com/nurpe/billboards-ops/internal/service"
)

type stubParser map[string]model.Principal

func (p stubParser) Parse(token string) (model.Principal, error) {
	principal, ok := p[token]
	if !ok {
		return model.Principal{}, errors.New("unknown token")
	}
	return principal, nil
}

type testServer struct {
	router    *gin.Engine
	inventory *mocks.Inventory
	ledger    *mocks.Ledger
	removals  *mocks.Removals
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	inventory := &mocks.Inventory{}
	ledgerRepo := &mocks.Ledger{}
	removals := &mocks.Removals{}
	cfg := &config.Config{Removal: config.RemovalConfig{LookbackDays: 30}}

	handler := NewHandler(
		service.NewLedgerService(inventory, ledgerRepo, zerolog.Nop()),
		service.NewRemovalService(inventory, removals, cache.NewMemoryStore(0), cfg, zerolog.Nop()),
		zerolog.Nop(),
	)
	parser := stubParser{
		"viewer":     {UserID: uuid.New(), Role: model.UserRoleViewer},
		"accountant": {UserID: uuid.New(), Role: model.UserRoleAccountant},
	}
	router := NewRouter(handler, middleware.Auth(parser), "development", []string{"*"})
	return &testServer{router: router, inventory: inventory, ledger: ledgerRepo, removals: removals}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/ledger/overview", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodGet, "/ledger/overview", "forged", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOverviewReturnsReport(t *testing.T) {
	srv := newTestServer(t)
	srv.inventory.On("ListContracts", mock.Anything).Return([]model.Contract{{
		Number:      "1086",
		RentCost:    1000,
		RentFeeRate: 10,
		TotalPaid:   1000,
	}}, nil)
	srv.ledger.On("ListWithdrawals", mock.Anything).Return([]model.Withdrawal{{ID: uuid.New(), Amount: 100}}, nil)
	srv.ledger.On("ListClosures", mock.Anything).Return([]model.PeriodClosure{}, nil)
	srv.ledger.On("ListExclusions", mock.Anything).Return([]model.ContractExclusion{}, nil)

	rec := srv.do(http.MethodGet, "/ledger/overview", "viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Contracts, 1)
	require.Equal(t, 100.0, body.Contracts[0].CollectedFeeAmount)
	require.Equal(t, 100.0, body.Contracts[0].Withdrawn)
	require.True(t, body.Contracts[0].Settled)
	require.Equal(t, []string{"1086"}, body.SettledContracts)
	require.Equal(t, 100.0, body.TotalWithdrawals)
}

func TestCreateWithdrawalForbiddenForViewer(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/ledger/withdrawals", "viewer", `{"amount":50,"date":"2026-10-01"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	srv.ledger.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
}

func TestCreateWithdrawalRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/ledger/withdrawals", "accountant", `{"date":"2026-10-01"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPost, "/ledger/withdrawals", "accountant", `{"amount":50,"date":"first of october"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateClosureRejectsInvalidRange(t *testing.T) {
	srv := newTestServer(t)
	srv.inventory.On("ListContracts", mock.Anything).Return([]model.Contract{}, nil)
	srv.ledger.On("ListWithdrawals", mock.Anything).Return([]model.Withdrawal{}, nil)
	srv.ledger.On("ListClosures", mock.Anything).Return([]model.PeriodClosure{}, nil)
	srv.ledger.On("ListExclusions", mock.Anything).Return([]model.ContractExclusion{}, nil)

	rec := srv.do(http.MethodPost, "/ledger/closures", "accountant",
		`{"closure_type":"contract_range","contract_start":1100,"contract_end":1000}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	srv.ledger.AssertNotCalled(t, "CreateClosure", mock.Anything, mock.Anything)
}

func TestRemovalRoutesValidatePathAndQuery(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/removal/tasks/not-a-uuid/complete", "viewer", `{"item_ids":[],"removal_date":"2026-10-18"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodGet, "/removal/tasks?status=archived", "viewer", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskNotFound(t *testing.T) {
	srv := newTestServer(t)
	id := uuid.New()
	srv.removals.On("GetTask", mock.Anything, id).Return(nil, service.ErrNotFound)

	rec := srv.do(http.MethodGet, "/removal/tasks/"+id.String(), "viewer", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAutoCreateForbiddenForAccountant(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/removal/tasks/auto", "accountant", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteRoutesMapMissingRecordsToNotFound(t *testing.T) {
	srv := newTestServer(t)
	withdrawalID := uuid.New()
	closureID := uuid.New()
	srv.ledger.On("DeleteWithdrawal", mock.Anything, withdrawalID).Return(gorm.ErrRecordNotFound)
	srv.ledger.On("DeleteClosure", mock.Anything, closureID).Return(gorm.ErrRecordNotFound)

	rec := srv.do(http.MethodDelete, "/ledger/withdrawals/"+withdrawalID.String(), "accountant", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodDelete, "/ledger/closures/"+closureID.String(), "accountant", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodDelete, "/ledger/closures/"+closureID.String(), "viewer", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
