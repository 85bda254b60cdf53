package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/jprocessing/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *pricingdomain.ProductPrice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO product_prices (id, product_id, priority, min_quantity, groups, model, value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ProductID,
		p.Priority,
		p.MinQuantity,
		p.Groups,
		string(p.Model),
		p.Value,
		p.CreatedAt,
	).Error
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID snowflake.ID) ([]*pricingdomain.ProductPrice, error) {
	var rules []*pricingdomain.ProductPrice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, priority, min_quantity, groups, model, value, created_at
		 FROM product_prices
		 WHERE product_id = ?
		 ORDER BY priority DESC, id ASC`,
		productID,
	).Scan(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*pricingdomain.ProductPrice, error) {
	var rule pricingdomain.ProductPrice
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, priority, min_quantity, groups, model, value, created_at
		 FROM product_prices WHERE id = ?`,
		id,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM product_prices WHERE id = ?`,
		id,
	).Error
}
