package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Product) error

	// FindByID returns nil when the id is unknown. Deleted products are
	// still returned so historical references keep resolving.
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)

	FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*Product, error)

	Update(ctx context.Context, db *gorm.DB, p *Product) error

	MarkDeleted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error

	// List returns non-deleted products in sku order.
	List(ctx context.Context, db *gorm.DB) ([]Product, error)
}
