package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status is the payment lifecycle state. PENDING is the only state that
// accepts transitions; every other state is terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
	StatusRefund   Status = "REFUND"
	StatusError    Status = "ERROR"
	StatusTimeout  Status = "TIMEOUT"
	StatusFraud    Status = "FRAUD"
)

func (s Status) Terminal() bool {
	return s != StatusPending
}

// closingStatuses are the terminal states that carry no ledger effect.
var closingStatuses = map[Status]struct{}{
	StatusError:   {},
	StatusTimeout: {},
	StatusFraud:   {},
}

func (s Status) Closing() bool {
	_, ok := closingStatuses[s]
	return ok
}

// Payment mirrors one transaction at an external payment processor.
// TransactionID is the processor's identifier and is unique across all
// payments. Properties is an opaque bag the processor integration owns;
// nothing in here interprets it.
type Payment struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	AccountID int64        `gorm:"column:account_id;index" json:"account_id"`

	TransactionID string `gorm:"column:transaction_id;size:128;uniqueIndex" json:"transaction_id"`
	Processor     string `gorm:"column:processor;size:64" json:"processor"`
	Status        Status `gorm:"column:status;type:text" json:"status"`

	Amount   decimal.Decimal `gorm:"column:amount;type:numeric(19,4)" json:"amount"`
	Currency string          `gorm:"column:currency;size:3" json:"currency"`

	Properties datatypes.JSONMap `gorm:"column:properties" json:"properties,omitempty"`

	StartTime time.Time  `gorm:"column:start_time" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time" json:"end_time"`

	AccountingRecordID *snowflake.ID `gorm:"column:accounting_record_id" json:"accounting_record_id"`
	InvoiceID          *snowflake.ID `gorm:"column:invoice_id" json:"invoice_id"`
}

func (Payment) TableName() string {
	return "payments"
}
