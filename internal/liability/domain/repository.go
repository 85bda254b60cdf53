package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, l *Liability) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Liability, error)

	// ListByAccount returns the account's liabilities newest first.
	ListByAccount(ctx context.Context, db *gorm.DB, accountID int64) ([]Liability, error)

	// LinkRecord sets the accounting record on the given liabilities and
	// returns the number of rows updated. Already-settled rows are not
	// touched.
	LinkRecord(ctx context.Context, db *gorm.DB, recordID snowflake.ID, liabilityIDs []snowflake.ID) (int64, error)
}
