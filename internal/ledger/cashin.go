package ledger

import (
	"context"

	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CashInWorkflow is the pending/accepted/rejected state machine between a
// user asking to convert cash into balance and the agent servicing it.
// Terminal states are final; the pending-status filter on every mutation is
// the guard against double approval.
type CashInWorkflow struct {
	store store.Store
}

func NewCashInWorkflow(st store.Store) *CashInWorkflow {
	return &CashInWorkflow{store: st}
}

// Request opens a pending cash-in from the user at userMobile towards the
// agent at agentMobile. The PIN is the requesting user's, not the agent's.
// No balance moves until the agent approves.
func (w *CashInWorkflow) Request(ctx context.Context, userMobile, agentMobile, amount, pin string) error {
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}

	if _, err := w.store.AgentByMobile(ctx, agentMobile); err != nil {
		return err
	}
	user, err := w.store.AccountByMobile(ctx, userMobile)
	if err != nil {
		return err
	}
	if !VerifyPIN(pin, user.PIN) {
		return models.ErrForbidden
	}

	req := &models.CashInRequest{
		Ref:         uuid.New(),
		UserMobile:  userMobile,
		AgentMobile: agentMobile,
		Amount:      amt,
		Status:      models.CashInPending,
	}
	if err := w.store.CreateCashInRequest(ctx, req); err != nil {
		return err
	}

	logger.Log.Info("cash-in requested",
		zap.String("ref", req.Ref.String()),
		zap.String("user", userMobile),
		zap.String("agent", agentMobile),
		zap.String("amount", amt.String()))
	return nil
}

// Pending lists the open requests addressed to the authenticated agent.
func (w *CashInWorkflow) Pending(ctx context.Context, agentMobile string) ([]models.CashInRequest, error) {
	return w.store.PendingCashIn(ctx, agentMobile)
}

// Approve moves the requested amount from the agent to the user and flips
// the request to accepted as one unit. A request that is missing, already
// terminal, or owned by another agent is uniformly not found.
func (w *CashInWorkflow) Approve(ctx context.Context, requestID uint, agentMobile string) error {
	if err := w.store.ApproveCashIn(ctx, requestID, agentMobile); err != nil {
		return err
	}
	logger.Log.Info("cash-in approved",
		zap.Uint("request", requestID),
		zap.String("agent", agentMobile))
	return nil
}

// Reject closes the request without any balance effect. Same ownership and
// pending checks as Approve.
func (w *CashInWorkflow) Reject(ctx context.Context, requestID uint, agentMobile string) error {
	if err := w.store.RejectCashIn(ctx, requestID, agentMobile); err != nil {
		return err
	}
	logger.Log.Info("cash-in rejected",
		zap.Uint("request", requestID),
		zap.String("agent", agentMobile))
	return nil
}
