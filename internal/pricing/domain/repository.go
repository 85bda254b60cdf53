package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *ProductPrice) error

	// ListByProduct returns all rules for a product ordered by priority
	// descending, then id ascending.
	ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]*ProductPrice, error)

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ProductPrice, error)

	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
