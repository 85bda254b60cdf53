// Package domain contains the account ledger models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RecordType classifies accounting records.
type RecordType string

const (
	// RecordTypeDebit marks money received by the account. Amount is positive.
	RecordTypeDebit RecordType = "DEBIT"

	// RecordTypeCredit marks money spent from the account. Amount is negative.
	RecordTypeCredit RecordType = "CREDIT"

	// RecordTypeSummary is a checkpoint holding the balance of everything
	// before it. Any sign. It never changes the mathematical balance, it only
	// bounds how far back a balance scan must read.
	RecordTypeSummary RecordType = "SUMMARY"
)

// Account is one customer money account. The ID is the externally assigned
// billing identifier and never changes. Accounts are never hard-deleted;
// deactivation is the only destructive operation.
type Account struct {
	ID        int64     `gorm:"primaryKey"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }

// AccountingRecord is one immutable ledger entry. Once written it is never
// updated or removed.
type AccountingRecord struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	AccountID  int64           `gorm:"not null;index"`
	RecordType RecordType      `gorm:"type:text;not null"`
	Timestamp  time.Time       `gorm:"not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(19,4);not null"`
}

// TableName sets the database table name.
func (AccountingRecord) TableName() string { return "accounting_records" }

// WithdrawRequest records a customer request to take money out of the
// system. It always points at the CREDIT record that reserved the funds.
type WithdrawRequest struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	AccountID          int64        `gorm:"not null;index"`
	AccountingRecordID snowflake.ID `gorm:"not null;index"`
	CreatedAt          time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (WithdrawRequest) TableName() string { return "withdraw_requests" }
