package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateProductRequest struct {
	SKU         string
	Name        string
	Description string
	Fractional  bool
	Available   bool

	SubscriptionType   SubscriptionType
	SubscriptionPeriod int
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Get(ctx context.Context, id snowflake.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	SetAvailability(ctx context.Context, id snowflake.ID, available bool) (*Product, error)

	// Delete soft-deletes the product. Existing liabilities and invoice
	// items keep pointing at it.
	Delete(ctx context.Context, id snowflake.ID) error

	List(ctx context.Context) ([]Product, error)
}

var (
	ErrNotFound            = errors.New("product_not_found")
	ErrDuplicateSKU        = errors.New("duplicate_sku")
	ErrInvalidSKU          = errors.New("invalid_sku")
	ErrInvalidSubscription = errors.New("invalid_subscription")
)
