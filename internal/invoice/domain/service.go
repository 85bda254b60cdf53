package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ItemRequest struct {
	ProductID snowflake.ID
	UnitPrice decimal.Decimal
	Currency  string
	Quantity  decimal.Decimal
}

type Service interface {
	// Create opens an invoice with the given items and an up-to-date
	// total. An empty item list is allowed.
	Create(ctx context.Context, items ...ItemRequest) (*Invoice, error)

	// Get returns the invoice with its items loaded.
	Get(ctx context.Context, id snowflake.ID) (*Invoice, error)

	// AddItem appends an item without touching the cached total. Callers
	// decide when to pay the recompute cost.
	AddItem(ctx context.Context, invoiceID snowflake.ID, item ItemRequest) (*InvoiceItem, error)

	// RecomputeTotal re-sums the item line totals and stores the result.
	// An invoice with no items recomputes to zero.
	RecomputeTotal(ctx context.Context, invoiceID snowflake.ID) (decimal.Decimal, error)

	MarkPaid(ctx context.Context, invoiceID snowflake.ID, at time.Time) error
}

var (
	ErrNotFound        = errors.New("invoice_not_found")
	ErrAlreadyPaid     = errors.New("invoice_already_paid")
	ErrInvalidQuantity = errors.New("invalid_item_quantity")
	ErrInvalidCurrency = errors.New("invalid_item_currency")
)
