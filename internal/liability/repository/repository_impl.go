package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	liabilitydomain "github.com/smallbiznis/jprocessing/internal/liability/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() liabilitydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, l *liabilitydomain.Liability) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO liabilities (id, account_id, product_id, unit_price, currency, quantity, price_total, create_time, expire_time, accounting_record_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.AccountID,
		l.ProductID,
		l.UnitPrice,
		l.Currency,
		l.Quantity,
		l.PriceTotal,
		l.CreateTime,
		l.ExpireTime,
		l.AccountingRecordID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*liabilitydomain.Liability, error) {
	var l liabilitydomain.Liability
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, product_id, unit_price, currency, quantity, price_total, create_time, expire_time, accounting_record_id
		 FROM liabilities WHERE id = ?`,
		id,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}

func (r *repo) ListByAccount(ctx context.Context, db *gorm.DB, accountID int64) ([]liabilitydomain.Liability, error) {
	var liabilities []liabilitydomain.Liability
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, product_id, unit_price, currency, quantity, price_total, create_time, expire_time, accounting_record_id
		 FROM liabilities
		 WHERE account_id = ?
		 ORDER BY create_time DESC, id DESC`,
		accountID,
	).Scan(&liabilities).Error
	if err != nil {
		return nil, err
	}
	return liabilities, nil
}

func (r *repo) LinkRecord(ctx context.Context, db *gorm.DB, recordID snowflake.ID, liabilityIDs []snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE liabilities SET accounting_record_id = ?
		 WHERE id IN ? AND accounting_record_id IS NULL`,
		recordID,
		liabilityIDs,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
