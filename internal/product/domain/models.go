package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionType names the recurrence unit for subscription products.
// SubscriptionNone marks a one-off product.
type SubscriptionType string

const (
	SubscriptionNone  SubscriptionType = "NONE"
	SubscriptionDay   SubscriptionType = "DAY"
	SubscriptionWeek  SubscriptionType = "WEEK"
	SubscriptionMonth SubscriptionType = "MONTH"
	SubscriptionYear  SubscriptionType = "YEAR"
)

func (s SubscriptionType) Valid() bool {
	switch s {
	case SubscriptionNone, SubscriptionDay, SubscriptionWeek, SubscriptionMonth, SubscriptionYear:
		return true
	}
	return false
}

type Product struct {
	ID  snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	SKU string       `gorm:"column:sku;size:60;uniqueIndex" json:"sku"`

	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`

	// Fractional products may be priced and invoiced in non-integer
	// quantities (hours, gigabytes). Non-fractional products only accept
	// whole-number quantities.
	Fractional bool `gorm:"column:fractional" json:"fractional"`

	Available bool `gorm:"column:available" json:"available"`
	Deleted   bool `gorm:"column:deleted" json:"deleted"`

	SubscriptionType   SubscriptionType `gorm:"column:subscription_type;type:text" json:"subscription_type"`
	SubscriptionPeriod int              `gorm:"column:subscription_period" json:"subscription_period"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Orderable reports whether the product can appear on new liabilities or
// invoice items. Deleted products stay in the catalog for history only.
func (p *Product) Orderable() bool {
	return p.Available && !p.Deleted
}
