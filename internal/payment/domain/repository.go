package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*Payment, error)

	// Settle finalizes the payment in one statement: status, end time and
	// ledger record link only change when the row is still PENDING. The
	// returned count is how many rows matched.
	Settle(ctx context.Context, db *gorm.DB, p *Payment) (int64, error)

	// ListByAccount returns the account's payments newest first.
	ListByAccount(ctx context.Context, db *gorm.DB, accountID int64) ([]Payment, error)
}
