package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	InsertAccount(ctx context.Context, db *gorm.DB, account *Account) error
	FindAccount(ctx context.Context, db *gorm.DB, id int64) (*Account, error)
	DeactivateAccount(ctx context.Context, db *gorm.DB, id int64, at time.Time) error

	InsertRecord(ctx context.Context, db *gorm.DB, record *AccountingRecord) error

	// LastSummary returns the newest SUMMARY record with timestamp <= asOf,
	// or nil when the account has none.
	LastSummary(ctx context.Context, db *gorm.DB, accountID int64, asOf time.Time) (*AccountingRecord, error)

	// ListRecordsBetween returns non-SUMMARY records appended after the
	// given checkpoint with timestamp <= asOf, in timestamp order. Ids are
	// monotonic, so a record sharing the checkpoint's timestamp counts as
	// after it when its id is greater. A nil after means from the beginning
	// of the log.
	ListRecordsBetween(ctx context.Context, db *gorm.DB, accountID int64, after *AccountingRecord, asOf time.Time) ([]AccountingRecord, error)

	InsertWithdraw(ctx context.Context, db *gorm.DB, withdraw *WithdrawRequest) error
}
