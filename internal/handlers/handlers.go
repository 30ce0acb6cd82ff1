package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Tanvirgit07/TK-Anii-server/internal/httputil"
	"github.com/Tanvirgit07/TK-Anii-server/internal/ledger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/middleware"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"github.com/go-chi/chi/v5"
)

// Handler carries the ledger core and exposes it over HTTP. All routes here
// run behind the bearer-token middleware; money movement additionally takes
// the transaction PIN in the body.
type Handler struct {
	Ledger  *ledger.Service
	CashIn  *ledger.CashInWorkflow
	History *ledger.History
	Store   store.Store
}

// amount accepts both a JSON number and a JSON string; clients send either.
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = amount(n.String())
	return nil
}

func (a amount) String() string { return string(a) }

type sendMoneyRequest struct {
	RecipientMobile string `json:"recipientMobile"`
	Amount          amount `json:"amount"`
	PIN             string `json:"pin"`
}

type cashOutRequest struct {
	AgentMobile string `json:"agentMobile"`
	Amount      amount `json:"amount"`
	PIN         string `json:"pin"`
}

type requestIDBody struct {
	RequestID uint `json:"requestId"`
}

type statusBody struct {
	Status string `json:"status"`
}

func (h *Handler) SendMoney(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req sendMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Ledger.SendMoney(r.Context(), identity.AccountID, req.RecipientMobile, req.Amount.String(), req.PIN)
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Transaction successful")
}

func (h *Handler) CashOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req cashOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Ledger.CashOut(r.Context(), identity.AccountID, req.AgentMobile, req.Amount.String(), req.PIN)
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Cash out successful")
}

func (h *Handler) CashInRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req cashOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AgentMobile == "" || req.Amount.String() == "" || req.PIN == "" {
		httputil.WriteError(w, http.StatusBadRequest, "all fields are required")
		return
	}

	err := h.CashIn.Request(r.Context(), identity.Mobile, req.AgentMobile, req.Amount.String(), req.PIN)
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Cash-in request sent")
}

func (h *Handler) PendingCashIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requests, err := h.CashIn.Pending(r.Context(), identity.Mobile)
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	if requests == nil {
		requests = []models.CashInRequest{}
	}
	httputil.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) ApproveCashIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req requestIDBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.CashIn.Approve(r.Context(), req.RequestID, identity.Mobile); err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Cash-in request approved")
}

func (h *Handler) RejectCashIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req requestIDBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.CashIn.Reject(r.Context(), req.RequestID, identity.Mobile); err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Cash-in request rejected")
}

func (h *Handler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.History.AllTransactions(r.Context())
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) CashInTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.History.CashInTransactions(r.Context())
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	acc, err := h.Store.AccountByEmail(r.Context(), email)
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.SearchAccounts(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	httputil.WriteJSON(w, http.StatusOK, accounts)
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req statusBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != models.AccountAccepted && req.Status != models.AccountPending {
		httputil.WriteError(w, http.StatusBadRequest, "invalid status value")
		return
	}

	if err := h.Store.UpdateAccountStatus(r.Context(), uint(id), req.Status); err != nil {
		httputil.WriteLedgerError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "User status updated successfully")
}
