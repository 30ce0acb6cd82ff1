// Package store holds the persistence ports for the ledger: account records
// with atomic balance movement, and the append-only transaction log.
package store

import (
	"context"

	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
)

// Store is the contract the ledger core runs against. Movement operations
// (RecordSendMoney, RecordCashOut, ApproveCashIn) are atomic: every balance
// mutation and log write inside one call either fully applies or leaves no
// observable trace.
type Store interface {
	// Accounts.
	CreateAccount(ctx context.Context, acc *models.Account) error
	AccountByID(ctx context.Context, id uint) (*models.Account, error)
	AccountByMobile(ctx context.Context, mobile string) (*models.Account, error)
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// AgentByMobile returns ErrAgentNotFound unless an Agent-role account
	// exists at the mobile.
	AgentByMobile(ctx context.Context, mobile string) (*models.Account, error)
	SearchAccounts(ctx context.Context, name string) ([]models.Account, error)
	UpdateAccountStatus(ctx context.Context, id uint, status string) error

	// Money movement. The record carries the already-computed amounts;
	// the store re-checks the debited balance under its own lock scope.
	RecordSendMoney(ctx context.Context, rec *models.SendMoneyRecord) error
	RecordCashOut(ctx context.Context, rec *models.CashOutRecord) error

	// Cash-in workflow.
	CreateCashInRequest(ctx context.Context, req *models.CashInRequest) error
	PendingCashIn(ctx context.Context, agentMobile string) ([]models.CashInRequest, error)
	ApproveCashIn(ctx context.Context, requestID uint, agentMobile string) error
	RejectCashIn(ctx context.Context, requestID uint, agentMobile string) error

	// Transaction log reads, for the unified history view.
	SendMoneyRecords(ctx context.Context) ([]models.SendMoneyRecord, error)
	CashOutRecords(ctx context.Context) ([]models.CashOutRecord, error)
	CashInRequests(ctx context.Context) ([]models.CashInRequest, error)
}
