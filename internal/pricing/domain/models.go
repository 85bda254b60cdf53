package domain

import (
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PriceModel distinguishes how a rule's value is applied. Only full
// per-unit pricing exists today.
type PriceModel string

const ModelFull PriceModel = "F"

// ProductPrice is one pricing rule for a product. A rule applies when the
// requested quantity reaches MinQuantity and the customer's group is listed
// in Groups (an empty Groups matches everyone). Among applicable rules the
// highest Priority wins; ties go to the lowest rule id.
type ProductPrice struct {
	ID        snowflake.ID `gorm:"column:id;primaryKey" json:"id"`
	ProductID snowflake.ID `gorm:"column:product_id;index" json:"product_id"`

	Priority    int             `gorm:"column:priority" json:"priority"`
	MinQuantity decimal.Decimal `gorm:"column:min_quantity;type:numeric(19,4)" json:"min_quantity"`

	// Groups holds comma-joined uppercase group codes. Use SetGroups and
	// GroupSet instead of touching the column directly.
	Groups string `gorm:"column:groups" json:"groups"`

	Model PriceModel      `gorm:"column:model;type:text" json:"model"`
	Value decimal.Decimal `gorm:"column:value;type:numeric(19,4)" json:"value"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	groupsMu  sync.Mutex
	groupsSet map[string]struct{}
}

func (*ProductPrice) TableName() string {
	return "product_prices"
}

// SetGroups stores the codes comma-joined and uppercased, and drops the
// cached set so the next GroupSet call rebuilds it.
func (p *ProductPrice) SetGroups(codes []string) {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			cleaned = append(cleaned, code)
		}
	}

	p.groupsMu.Lock()
	p.Groups = strings.Join(cleaned, ",")
	p.groupsSet = nil
	p.groupsMu.Unlock()
}

// GroupSet parses the Groups column on first use and caches the result.
func (p *ProductPrice) GroupSet() map[string]struct{} {
	p.groupsMu.Lock()
	defer p.groupsMu.Unlock()

	if p.groupsSet == nil {
		p.groupsSet = make(map[string]struct{})
		for _, code := range strings.Split(p.Groups, ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code != "" {
				p.groupsSet[code] = struct{}{}
			}
		}
	}
	return p.groupsSet
}

// IsActiveFor reports whether this rule applies to the given customer group
// and quantity.
func (p *ProductPrice) IsActiveFor(group string, quantity decimal.Decimal) bool {
	if quantity.LessThan(p.MinQuantity) {
		return false
	}

	set := p.GroupSet()
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToUpper(strings.TrimSpace(group))]
	return ok
}
