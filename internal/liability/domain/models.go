package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Liability is a debt a customer account owes for a product. Price, currency
// and quantity are snapshotted at creation and never change afterwards, so
// later catalog edits cannot rewrite what was owed. AccountingRecordID is
// set once the liability is settled; one record may settle many liabilities.
type Liability struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	AccountID int64        `gorm:"column:account_id;index" json:"account_id"`
	ProductID snowflake.ID `gorm:"column:product_id" json:"product_id"`

	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(19,4)" json:"unit_price"`
	Currency   string          `gorm:"column:currency;size:3" json:"currency"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(19,4)" json:"quantity"`
	PriceTotal decimal.Decimal `gorm:"column:price_total;type:numeric(19,2)" json:"price_total"`

	CreateTime time.Time  `gorm:"column:create_time" json:"create_time"`
	ExpireTime *time.Time `gorm:"column:expire_time" json:"expire_time"`

	AccountingRecordID *snowflake.ID `gorm:"column:accounting_record_id" json:"accounting_record_id"`
}

func (Liability) TableName() string {
	return "liabilities"
}

func (l *Liability) Settled() bool {
	return l.AccountingRecordID != nil
}
