package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/jprocessing/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) InsertInvoice(ctx context.Context, db *gorm.DB, inv *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, create_time, payment_time, total)
		 VALUES (?, ?, ?, ?)`,
		inv.ID,
		inv.CreateTime,
		inv.PaymentTime,
		inv.Total,
	).Error
}

func (r *repo) FindInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var inv invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, create_time, payment_time, total FROM invoices WHERE id = ?`,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *invoicedomain.InvoiceItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (id, invoice_id, product_id, unit_price, currency, quantity)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.InvoiceID,
		item.ProductID,
		item.UnitPrice,
		item.Currency,
		item.Quantity,
	).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, product_id, unit_price, currency, quantity
		 FROM invoice_items
		 WHERE invoice_id = ?
		 ORDER BY id ASC`,
		invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateTotal(ctx context.Context, db *gorm.DB, id snowflake.ID, total decimal.Decimal) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET total = ? WHERE id = ?`,
		total,
		id,
	).Error
}

func (r *repo) SetPaymentTime(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET payment_time = ? WHERE id = ?`,
		at,
		id,
	).Error
}
