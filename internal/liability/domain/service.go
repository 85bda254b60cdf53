package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateLiabilityRequest struct {
	AccountID int64
	ProductID snowflake.ID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Currency  string
	Expire    *time.Time
}

type Service interface {
	// Create snapshots the price, currency and quantity into a new
	// liability. PriceTotal is the line total rounded to two fractional
	// digits half up.
	Create(ctx context.Context, req CreateLiabilityRequest) (*Liability, error)

	Get(ctx context.Context, id snowflake.ID) (*Liability, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Liability, error)

	// Settle links one accounting record to every listed liability, the
	// multi-item invoice case. Fails without touching anything if any
	// liability is unknown or already settled.
	Settle(ctx context.Context, recordID snowflake.ID, liabilityIDs ...snowflake.ID) error
}

var (
	ErrNotFound           = errors.New("liability_not_found")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrFractionalQuantity = errors.New("fractional_quantity_not_allowed")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrAlreadySettled     = errors.New("liability_already_settled")
)
