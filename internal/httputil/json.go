package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", zap.Error(err))
	}
}

func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, MessageResponse{Message: msg})
}

// WriteLedgerError translates the ledger error taxonomy into a status and a
// JSON error body. Unknown errors become a generic 500 so internals never
// leak to the caller.
func WriteLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInsufficientBalance):
		WriteError(w, http.StatusBadRequest, "insufficient balance")
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, "invalid PIN")
	case errors.Is(err, models.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, models.ErrAgentNotFound):
		WriteError(w, http.StatusNotFound, "agent not found")
	case errors.Is(err, models.ErrRequestNotFound):
		WriteError(w, http.StatusNotFound, "request not found")
	case errors.Is(err, models.ErrConflict):
		WriteError(w, http.StatusConflict, "conflicting update, retry")
	case errors.Is(err, models.ErrDuplicateAccount):
		WriteError(w, http.StatusConflict, "account already exists")
	default:
		logger.Log.Error("operation failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
