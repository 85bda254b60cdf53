package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/smallbiznis/jprocessing/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() productdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *productdomain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, sku, name, description, fractional, available, deleted, subscription_type, subscription_period, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.SKU,
		p.Name,
		p.Description,
		p.Fractional,
		p.Available,
		p.Deleted,
		string(p.SubscriptionType),
		p.SubscriptionPeriod,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*productdomain.Product, error) {
	var p productdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, description, fractional, available, deleted, subscription_type, subscription_period, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*productdomain.Product, error) {
	var p productdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, description, fractional, available, deleted, subscription_type, subscription_period, created_at, updated_at
		 FROM products WHERE sku = ?`,
		sku,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *productdomain.Product) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, fractional = ?, available = ?, subscription_type = ?, subscription_period = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name,
		p.Description,
		p.Fractional,
		p.Available,
		string(p.SubscriptionType),
		p.SubscriptionPeriod,
		p.UpdatedAt,
		p.ID,
	).Error
}

func (r *repo) MarkDeleted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET deleted = ?, available = ?, updated_at = ? WHERE id = ?`,
		true,
		false,
		at,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]productdomain.Product, error) {
	var products []productdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, sku, name, description, fractional, available, deleted, subscription_type, subscription_period, created_at, updated_at
		 FROM products WHERE deleted = ? ORDER BY sku ASC`,
		false,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
