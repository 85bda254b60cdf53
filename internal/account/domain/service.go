package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	// Open registers the account for an externally assigned billing id.
	Open(ctx context.Context, billingID int64) (*Account, error)

	// Deactivate marks the account inactive. Accounts are never hard-deleted.
	Deactivate(ctx context.Context, billingID int64) error

	Get(ctx context.Context, billingID int64) (*Account, error)

	// AppendRecord normalizes amount to four fractional digits (half up) and
	// appends it to the account log. DEBIT amounts must be >= 0, CREDIT
	// amounts <= 0, SUMMARY unrestricted.
	AppendRecord(ctx context.Context, accountID int64, recordType RecordType, amount decimal.Decimal) (*AccountingRecord, error)

	// AppendRecordWith behaves like AppendRecord but calls fn with the
	// transaction and the new record before committing, so the caller's
	// rows commit or roll back together with the record. The account lock
	// is taken before the transaction opens, same order as Withdraw.
	AppendRecordWith(ctx context.Context, accountID int64, recordType RecordType, amount decimal.Decimal, fn func(tx *gorm.DB, record *AccountingRecord) error) (*AccountingRecord, error)

	// Balance derives the account balance from all records with
	// timestamp <= asOf.
	Balance(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error)

	// Checkpoint appends a SUMMARY record holding the balance as of now,
	// bounding future balance scans. Call cadence is up to the host.
	Checkpoint(ctx context.Context, accountID int64) (*AccountingRecord, error)

	// Withdraw reserves amount for payout: appends a CREDIT record for
	// -amount and files a withdraw request pointing at it.
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*WithdrawRequest, error)
}

var (
	ErrNotFound          = errors.New("account_not_found")
	ErrAccountInactive   = errors.New("account_inactive")
	ErrDuplicateAccount  = errors.New("duplicate_account")
	ErrInvalidRecordType = errors.New("invalid_record_type")
	ErrAmountSign        = errors.New("amount_sign_mismatch")
	ErrInvalidWithdraw   = errors.New("invalid_withdraw_amount")
)
