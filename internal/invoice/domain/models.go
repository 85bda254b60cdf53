package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/jprocessing/internal/money"
)

// Invoice collects items for a single billing event. Total is a cached sum
// of the item line totals and only changes on an explicit recompute; between
// AddItem and RecomputeTotal the stored total is stale on purpose.
type Invoice struct {
	ID snowflake.ID `gorm:"column:id;primaryKey" json:"id"`

	CreateTime  time.Time  `gorm:"column:create_time" json:"create_time"`
	PaymentTime *time.Time `gorm:"column:payment_time" json:"payment_time"`

	Total decimal.Decimal `gorm:"column:total;type:numeric(19,2)" json:"total"`

	Items []InvoiceItem `gorm:"-" json:"items,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) Paid() bool {
	return i.PaymentTime != nil
}

type InvoiceItem struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"column:invoice_id;index" json:"invoice_id"`
	ProductID snowflake.ID `gorm:"column:product_id" json:"product_id"`

	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(19,4)" json:"unit_price"`
	Currency  string          `gorm:"column:currency;size:3" json:"currency"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric(19,4)" json:"quantity"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineTotal is the item's price times quantity rounded to two fractional
// digits half up.
func (it *InvoiceItem) LineTotal() decimal.Decimal {
	return money.LineTotal(it.UnitPrice, it.Quantity)
}
