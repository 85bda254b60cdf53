package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateRuleRequest struct {
	ProductID   snowflake.ID
	Priority    int
	MinQuantity decimal.Decimal
	Groups      []string
	Value       decimal.Decimal
}

// Resolution is the outcome of a price lookup: the winning rule's value and
// model, plus the rule id for audit trails.
type Resolution struct {
	Value  decimal.Decimal
	Model  PriceModel
	RuleID snowflake.ID
}

type Service interface {
	CreateRule(ctx context.Context, req CreateRuleRequest) (*ProductPrice, error)
	ListByProduct(ctx context.Context, productID snowflake.ID) ([]*ProductPrice, error)
	DeleteRule(ctx context.Context, id snowflake.ID) error

	// Resolve picks the price for one unit of product for the given
	// customer group and quantity. Deterministic: highest priority wins,
	// ties go to the lowest rule id.
	Resolve(ctx context.Context, productID snowflake.ID, customerGroup string, quantity decimal.Decimal) (*Resolution, error)
}

var (
	ErrNotFound          = errors.New("price_rule_not_found")
	ErrInvalidRule       = errors.New("invalid_price_rule")
	ErrNoApplicablePrice = errors.New("no_applicable_price")
)
