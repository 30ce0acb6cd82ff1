package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tanvirgit07/TK-Anii-server/configs"
	"github.com/Tanvirgit07/TK-Anii-server/internal/auth"
	"github.com/Tanvirgit07/TK-Anii-server/internal/handlers"
	"github.com/Tanvirgit07/TK-Anii-server/internal/ledger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/Tanvirgit07/TK-Anii-server/internal/routes"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPIN = "12345"

func init() {
	logger.InitTest()
	configs.AppConfig.JWT.SECRET = "test-secret"
}

type fixture struct {
	router *chi.Mux
	store  *store.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	authHandler := &auth.Handler{Store: st}
	h := &handlers.Handler{
		Ledger:  ledger.NewService(st),
		CashIn:  ledger.NewCashInWorkflow(st),
		History: ledger.NewHistory(st),
		Store:   st,
	}
	return &fixture{router: routes.NewRoutes(authHandler, h), store: st}
}

func (f *fixture) addAccount(t *testing.T, name, mobile, role string, balance int64) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPIN), bcrypt.MinCost)
	require.NoError(t, err)
	acc := &models.Account{
		Name:    name,
		Mobile:  mobile,
		Email:   mobile + "@test.local",
		PIN:     string(hash),
		Role:    role,
		Status:  models.AccountAccepted,
		Balance: decimal.NewFromInt(balance),
	}
	require.NoError(t, f.store.CreateAccount(context.Background(), acc))
	return acc
}

func (f *fixture) do(t *testing.T, method, path string, body any, acc *models.Account) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if acc != nil {
		token, err := auth.IssueToken(acc)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestSendMoneyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "success",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": 500, "pin": testPIN},
			wantStatus: http.StatusOK,
		},
		{
			name:       "amount as string",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": "500", "pin": testPIN},
			wantStatus: http.StatusOK,
		},
		{
			name:       "below minimum",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": 49.99, "pin": testPIN},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid amount",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": "abc", "pin": testPIN},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong pin",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": 500, "pin": "00000"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "recipient missing",
			body:       map[string]any{"recipientMobile": "01999999999", "amount": 500, "pin": testPIN},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "insufficient balance",
			body:       map[string]any{"recipientMobile": "01700000002", "amount": 5000, "pin": testPIN},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sender := f.addAccount(t, "Sender", "01700000001", models.RoleUser, 1000)
			f.addAccount(t, "Recipient", "01700000002", models.RoleUser, 0)

			rr := f.do(t, http.MethodPost, "/send-money", tt.body, sender)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestSendMoneyRequiresToken(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"recipientMobile": "01700000002", "amount": 500, "pin": testPIN}
	rr := f.do(t, http.MethodPost, "/send-money", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCashOutEndpoint(t *testing.T) {
	f := newFixture(t)
	user := f.addAccount(t, "User", "01700000001", models.RoleUser, 2000)
	f.addAccount(t, "Agent", "01800000001", models.RoleAgent, 10000)
	f.addAccount(t, "Not Agent", "01700000002", models.RoleUser, 0)

	rr := f.do(t, http.MethodPost, "/cash-out",
		map[string]any{"agentMobile": "01800000001", "amount": 1000, "pin": testPIN}, user)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// 1000 + 15 fee debited.
	acc, err := f.store.AccountByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(985)), "balance %s", acc.Balance)

	rr = f.do(t, http.MethodPost, "/cash-out",
		map[string]any{"agentMobile": "01700000002", "amount": 100, "pin": testPIN}, user)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCashInWorkflowEndpoints(t *testing.T) {
	f := newFixture(t)
	user := f.addAccount(t, "User", "01700000001", models.RoleUser, 0)
	agent := f.addAccount(t, "Agent", "01800000001", models.RoleAgent, 10000)
	otherAgent := f.addAccount(t, "Other Agent", "01800000002", models.RoleAgent, 10000)

	rr := f.do(t, http.MethodPost, "/cash-in-request",
		map[string]any{"agentMobile": agent.Mobile, "amount": 500, "pin": testPIN}, user)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Pending list is scoped to the agent in the token.
	rr = f.do(t, http.MethodGet, "/transactions/pending", nil, agent)
	require.Equal(t, http.StatusOK, rr.Code)
	var pending []models.CashInRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	requestID := pending[0].ID

	rr = f.do(t, http.MethodGet, "/transactions/pending", nil, otherAgent)
	require.Equal(t, http.StatusOK, rr.Code)
	var otherPending []models.CashInRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &otherPending))
	assert.Empty(t, otherPending)

	// Foreign agent cannot approve; indistinguishable from missing.
	rr = f.do(t, http.MethodPost, "/cash-in-approve",
		map[string]any{"requestId": requestID}, otherAgent)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodPost, "/cash-in-approve",
		map[string]any{"requestId": requestID}, agent)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Second approval is a no-op failure.
	rr = f.do(t, http.MethodPost, "/cash-in-approve",
		map[string]any{"requestId": requestID}, agent)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	acc, err := f.store.AccountByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(500)))
}

func TestRejectCashInEndpoint(t *testing.T) {
	f := newFixture(t)
	user := f.addAccount(t, "User", "01700000001", models.RoleUser, 0)
	agent := f.addAccount(t, "Agent", "01800000001", models.RoleAgent, 10000)

	rr := f.do(t, http.MethodPost, "/cash-in-request",
		map[string]any{"agentMobile": agent.Mobile, "amount": 250, "pin": testPIN}, user)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/transactions/pending", nil, agent)
	var pending []models.CashInRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)

	rr = f.do(t, http.MethodPost, "/cash-in-reject",
		map[string]any{"requestId": pending[0].ID}, agent)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodPost, "/cash-in-reject",
		map[string]any{"requestId": pending[0].ID}, agent)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAllTransactionsEndpoint(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(t, "Sender", "01700000001", models.RoleUser, 1000)
	f.addAccount(t, "Recipient", "01700000002", models.RoleUser, 0)

	rr := f.do(t, http.MethodPost, "/send-money",
		map[string]any{"recipientMobile": "01700000002", "amount": 500, "pin": testPIN}, sender)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/all-transactions", nil, sender)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []ledger.HistoryEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.KindSendMoney, entries[0].Kind)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	body := map[string]any{
		"name": "New User", "mobile": "01712345678",
		"email": "new@test.local", "pin": testPIN, "role": "User",
	}
	rr := f.do(t, http.MethodPost, "/register", body, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tokenResp auth.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokenResp))
	assert.NotEmpty(t, tokenResp.Token)

	// New users start with zero balance and pending status.
	acc, err := f.store.AccountByMobile(context.Background(), "01712345678")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
	assert.Equal(t, models.AccountPending, acc.Status)

	rr = f.do(t, http.MethodPost, "/register", body, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodPost, "/login",
		map[string]any{"email": "new@test.local", "pin": testPIN}, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodPost, "/login",
		map[string]any{"email": "new@test.local", "pin": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterAgentGetsFloat(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{
		"name": "New Agent", "mobile": "01812345678",
		"email": "agent@test.local", "pin": testPIN, "role": "Agent",
	}
	rr := f.do(t, http.MethodPost, "/register", body, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	acc, err := f.store.AccountByMobile(context.Background(), "01812345678")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture(t)
	admin := f.addAccount(t, "Admin", "01600000001", models.RoleAdmin, 10000)
	user := f.addAccount(t, "Plain User", "01700000001", models.RoleUser, 0)

	rr := f.do(t, http.MethodGet, "/users", nil, user)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, http.MethodGet, "/users?name=plain", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	var accounts []models.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, user.ID, accounts[0].ID)

	rr = f.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID),
		map[string]any{"status": "bogus"}, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPut, fmt.Sprintf("/users/%d", user.ID),
		map[string]any{"status": models.AccountAccepted}, admin)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProfileEndpoint(t *testing.T) {
	f := newFixture(t)
	user := f.addAccount(t, "User", "01700000001", models.RoleUser, 0)

	rr := f.do(t, http.MethodGet, "/user/01700000001@test.local", nil, user)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/user/nobody@test.local", nil, user)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
