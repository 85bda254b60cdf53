package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, c *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Customer, error)

	// RefreshIfOlder overwrites the snapshot only when the stored Updated
	// is still older than the staleness cutoff, in one conditional
	// statement. Returns the number of rows updated.
	RefreshIfOlder(ctx context.Context, db *gorm.DB, c *Customer, cutoff time.Time) (int64, error)
}
