package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/smallbiznis/jprocessing/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

const paymentColumns = `id, account_id, transaction_id, processor, status, amount, currency, properties, start_time, end_time, accounting_record_id, invoice_id`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *paymentdomain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.AccountID,
		p.TransactionID,
		p.Processor,
		string(p.Status),
		p.Amount,
		p.Currency,
		p.Properties,
		p.StartTime,
		p.EndTime,
		p.AccountingRecordID,
		p.InvoiceID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.Payment, error) {
	var p paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`,
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

func (r *repo) FindByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*paymentdomain.Payment, error) {
	var p paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = ?`,
		transactionID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) Settle(ctx context.Context, db *gorm.DB, p *paymentdomain.Payment) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET status = ?, end_time = ?, accounting_record_id = ?
		 WHERE id = ? AND status = ?`,
		string(p.Status),
		p.EndTime,
		p.AccountingRecordID,
		p.ID,
		string(paymentdomain.StatusPending),
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) ListByAccount(ctx context.Context, db *gorm.DB, accountID int64) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments
		 WHERE account_id = ?
		 ORDER BY start_time DESC, id DESC`,
		accountID,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
