package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "User"
	RoleAgent = "Agent"
	RoleAdmin = "Admin"

	AccountPending  = "pending"
	AccountAccepted = "accepted"

	CashInPending  = "pending"
	CashInAccepted = "accepted"
	CashInRejected = "rejected"
)

type Account struct {
	gorm.Model
	Name    string          `gorm:"size:100;not null"`
	Mobile  string          `gorm:"uniqueIndex;size:20;not null"`
	Email   string          `gorm:"uniqueIndex;size:255;not null"`
	PIN     string          `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized
	Role    string          `gorm:"size:10;index;not null"`     // User | Agent | Admin
	Status  string          `gorm:"size:10;not null"`           // pending | accepted
	Balance decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// SendMoneyRecord is immutable once written. CreatedAt is the
// transaction timestamp.
type SendMoneyRecord struct {
	gorm.Model
	Ref         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	SenderID    uint            `gorm:"index;not null"`
	SenderName  string          `gorm:"size:100;not null"`
	RecipientID uint            `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Fee         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// CashOutRecord is immutable once written.
type CashOutRecord struct {
	gorm.Model
	Ref            uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	UserID         uint            `gorm:"index;not null"`
	AgentID        uint            `gorm:"index;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Fee            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalDeduction decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// CashInRequest is the only mutable record: Status moves exactly once
// from pending to accepted or rejected.
type CashInRequest struct {
	gorm.Model
	Ref         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	UserMobile  string          `gorm:"index;size:20;not null"`
	AgentMobile string          `gorm:"index;size:20;not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status      string          `gorm:"size:10;index;not null"`
}
