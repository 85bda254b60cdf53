package repository

import (
	"context"
	"time"

	customerdomain "github.com/smallbiznis/jprocessing/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() customerdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *customerdomain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, login, email, active, info, updated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Login,
		c.Email,
		c.Active,
		c.Info,
		c.Updated,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*customerdomain.Customer, error) {
	var c customerdomain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, login, email, active, info, updated FROM customers WHERE id = ?`,
		id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) RefreshIfOlder(ctx context.Context, db *gorm.DB, c *customerdomain.Customer, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET login = ?, email = ?, active = ?, info = ?, updated = ?
		 WHERE id = ? AND updated < ?`,
		c.Login,
		c.Email,
		c.Active,
		c.Info,
		c.Updated,
		c.ID,
		cutoff,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
