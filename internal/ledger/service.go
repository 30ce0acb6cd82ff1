// Package ledger implements the money-movement core: send-money and cash-out
// transfers, the cash-in approval workflow, and the unified history view.
// All amounts are fixed-point decimals and every successful movement
// conserves total balance across the two touched accounts.
package ledger

import (
	"context"
	"fmt"

	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// Minimum transaction amount is 50 Taka.
	minSendAmount = decimal.NewFromInt(50)

	// Flat 5 Taka fee on send-money above 100, nothing at or below.
	flatFeeThreshold = decimal.NewFromInt(100)
	flatFee          = decimal.NewFromInt(5)

	// Cash-out charges 1.5% of the amount, no minimum gate.
	cashOutFeeRate = decimal.NewFromFloat(0.015)
)

// Service orchestrates the immediate transfers: validation, PIN
// authorization, atomic balance movement and log append.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// SendMoney moves amount from the caller to the account at recipientMobile.
// The sender is debited amount+fee; per the observed product behavior the
// recipient is credited amount+fee as well, so nothing is retained by the
// platform.
func (s *Service) SendMoney(ctx context.Context, callerID uint, recipientMobile, amount, pin string) error {
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}
	if amt.LessThan(minSendAmount) {
		return fmt.Errorf("%w: minimum transaction amount is 50 Taka", models.ErrValidation)
	}

	fee := decimal.Zero
	if amt.GreaterThan(flatFeeThreshold) {
		fee = flatFee
	}
	total := amt.Add(fee)

	sender, err := s.store.AccountByID(ctx, callerID)
	if err != nil {
		return err
	}
	recipient, err := s.store.AccountByMobile(ctx, recipientMobile)
	if err != nil {
		return err
	}

	if !VerifyPIN(pin, sender.PIN) {
		return models.ErrForbidden
	}
	if sender.Balance.LessThan(total) {
		return models.ErrInsufficientBalance
	}

	rec := &models.SendMoneyRecord{
		Ref:         uuid.New(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: recipient.ID,
		Amount:      amt,
		Fee:         fee,
		TotalAmount: total,
	}
	if err := s.store.RecordSendMoney(ctx, rec); err != nil {
		return err
	}

	logger.Log.Info("send money completed",
		zap.String("ref", rec.Ref.String()),
		zap.Uint("sender", sender.ID),
		zap.Uint("recipient", recipient.ID),
		zap.String("amount", amt.String()),
		zap.String("fee", fee.String()))
	return nil
}

// CashOut converts the caller's balance back to cash through an agent. The
// user is debited amount plus a 1.5% fee; the agent is credited both.
func (s *Service) CashOut(ctx context.Context, callerID uint, agentMobile, amount, pin string) error {
	amt, err := parseAmount(amount)
	if err != nil {
		return err
	}

	fee := amt.Mul(cashOutFeeRate)
	total := amt.Add(fee)

	user, err := s.store.AccountByID(ctx, callerID)
	if err != nil {
		return err
	}
	agent, err := s.store.AgentByMobile(ctx, agentMobile)
	if err != nil {
		return err
	}

	if !VerifyPIN(pin, user.PIN) {
		return models.ErrForbidden
	}
	if user.Balance.LessThan(total) {
		return models.ErrInsufficientBalance
	}

	rec := &models.CashOutRecord{
		Ref:            uuid.New(),
		UserID:         user.ID,
		AgentID:        agent.ID,
		Amount:         amt,
		Fee:            fee,
		TotalDeduction: total,
	}
	if err := s.store.RecordCashOut(ctx, rec); err != nil {
		return err
	}

	logger.Log.Info("cash out completed",
		zap.String("ref", rec.Ref.String()),
		zap.Uint("user", user.ID),
		zap.Uint("agent", agent.ID),
		zap.String("amount", amt.String()),
		zap.String("fee", fee.String()))
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount", models.ErrValidation)
	}
	if !amt.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}
	return amt, nil
}
