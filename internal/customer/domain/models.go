package domain

import (
	"regexp"
	"time"
)

// Customer is a locally cached snapshot of a customer owned by an external
// system. The billing id doubles as the primary key, so one external
// customer maps to exactly one row. Updated is the snapshot time, not the
// external system's own modification time.
type Customer struct {
	ID int64 `gorm:"column:id;primaryKey" json:"id"`

	Login  string `gorm:"column:login" json:"login"`
	Email  string `gorm:"column:email" json:"email"`
	Active bool   `gorm:"column:active" json:"active"`

	// Info is a short free-form description, at most 128 characters.
	Info string `gorm:"column:info;size:128" json:"info"`

	Updated time.Time `gorm:"column:updated" json:"updated"`
}

func (Customer) TableName() string {
	return "customers"
}

// ExternalCustomer is what the hosting application must expose for each of
// its customers. Implementations stay authoritative; the local cache only
// mirrors them.
type ExternalCustomer interface {
	BillingID() int64
	Login() string
	Email() string
	Active() bool

	// Groups returns the pricing group codes the customer belongs to.
	Groups() []string

	// ShortInfo describes the customer in at most 128 characters.
	ShortInfo() string

	CheckPassword(password string) bool
}

var groupCodeRe = regexp.MustCompile(`^[A-Z][0-9A-Z_]*[0-9A-Z]$`)

// ValidGroupCode reports whether a pricing group code is well formed:
// uppercase, starting with a letter, ending with a letter or digit.
func ValidGroupCode(code string) bool {
	return groupCodeRe.MatchString(code)
}
