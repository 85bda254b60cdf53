package domain

import (
	"context"
	"errors"
)

type Service interface {
	// GetOrCreate returns the cached snapshot for the external customer,
	// inserting it on first sight and refreshing it when the cached copy
	// is older than one calendar month.
	GetOrCreate(ctx context.Context, ext ExternalCustomer) (*Customer, error)

	Get(ctx context.Context, billingID int64) (*Customer, error)
}

var (
	ErrNotFound         = errors.New("customer_not_found")
	ErrInvalidBillingID = errors.New("invalid_billing_id")
	ErrInvalidGroupCode = errors.New("invalid_group_code")
	ErrInfoTooLong      = errors.New("customer_info_too_long")
)
