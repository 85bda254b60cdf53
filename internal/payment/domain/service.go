package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RecordPaymentRequest struct {
	AccountID     int64
	TransactionID string
	Processor     string
	Amount        decimal.Decimal
	Currency      string
	Properties    map[string]any
	InvoiceID     *snowflake.ID
}

type Service interface {
	// Record registers a PENDING payment for an external transaction. A
	// known TransactionID is rejected with ErrDuplicateTransaction and
	// leaves the existing payment and the ledger untouched.
	Record(ctx context.Context, req RecordPaymentRequest) (*Payment, error)

	Get(ctx context.Context, id snowflake.ID) (*Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Payment, error)

	// Complete settles a PENDING payment: appends a DEBIT record for the
	// amount and links it, in the same transaction the status flips. A
	// linked invoice gets its payment time stamped as well.
	Complete(ctx context.Context, id snowflake.ID) (*Payment, error)

	// Refund settles the payment with a reversing CREDIT record.
	Refund(ctx context.Context, id snowflake.ID) (*Payment, error)

	// Close ends the payment in ERROR, TIMEOUT or FRAUD. No ledger
	// effect.
	Close(ctx context.Context, id snowflake.ID, status Status) (*Payment, error)
}

// VerifyConsistency checks the settlement invariant on a stored payment: a
// COMPLETE or REFUND payment must reference the accounting record written
// when it settled.
func VerifyConsistency(p *Payment) error {
	if p.Status == StatusComplete || p.Status == StatusRefund {
		if p.AccountingRecordID == nil {
			return ErrMissingLedgerRecord
		}
	}
	return nil
}

var (
	ErrNotFound             = errors.New("payment_not_found")
	ErrInvalidTransactionID = errors.New("invalid_transaction_id")
	ErrDuplicateTransaction = errors.New("duplicate_transaction")
	ErrTerminalState        = errors.New("payment_in_terminal_state")
	ErrInvalidStatus        = errors.New("invalid_payment_status")
	ErrInvalidAmount        = errors.New("invalid_payment_amount")
	ErrInvalidCurrency      = errors.New("invalid_payment_currency")
	ErrMissingLedgerRecord  = errors.New("settled_payment_missing_ledger_record")
)
