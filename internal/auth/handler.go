package auth

import (
	"encoding/json"
	"net/http"

	"github.com/Tanvirgit07/TK-Anii-server/internal/httputil"
	"github.com/Tanvirgit07/TK-Anii-server/internal/ledger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Accounts with an operator role start with a float; ordinary users with zero.
var agentSeedBalance = decimal.NewFromInt(10000)

type Handler struct {
	Store store.Store
}

type RegisterRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email"`
	PIN    string `json:"pin"`
	Role   string `json:"role"`
}

type LoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Mobile == "" || req.Email == "" || req.PIN == "" {
		httputil.WriteError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	role := req.Role
	switch role {
	case models.RoleUser, models.RoleAgent, models.RoleAdmin:
	case "":
		role = models.RoleUser
	default:
		httputil.WriteError(w, http.StatusBadRequest, "invalid role")
		return
	}

	credential, err := ledger.HashPIN(req.PIN)
	if err != nil {
		logger.Log.Error("failed to hash pin", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	balance := decimal.Zero
	if role != models.RoleUser {
		balance = agentSeedBalance
	}

	acc := &models.Account{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Email:   req.Email,
		PIN:     credential,
		Role:    role,
		Status:  models.AccountPending,
		Balance: balance,
	}
	if err := h.Store.CreateAccount(r.Context(), acc); err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}

	token, err := IssueToken(acc)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.PIN == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and pin are required")
		return
	}

	acc, err := h.Store.AccountByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and wrong pin.
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !ledger.VerifyPIN(req.PIN, acc.PIN) {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := IssueToken(acc)
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Logout is a no-op on the server side; tokens are stateless and expire on
// their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteMessage(w, http.StatusOK, "Logout successful")
}
