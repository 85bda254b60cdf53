// Package repository provides the generic persistence-store contract shared
// by entity services. Narrow, per-entity query functions live next to their
// domain packages and take the store as a collaborator.
package repository

import "context"

// Store is a generic persistence store for one entity type.
//
// All mutating calls are expected to run inside the caller's unit of work:
// wrap the store with WithTrx inside a gorm transaction so the work commits
// on success and rolls back on any error.
type Store[T any] interface {
	// Persist inserts a new entity.
	Persist(ctx context.Context, entity *T) error

	// Merge updates an existing entity from its current field values.
	Merge(ctx context.Context, entity *T) error

	// Refresh reloads the entity state by primary key. A row that no longer
	// exists is logged as a warning and left untouched, not raised: callers
	// holding a reference to a removed entity are not considered failed.
	Refresh(ctx context.Context, entity *T) error

	// Remove deletes by primary key.
	Remove(ctx context.Context, key any) error

	// FindByKey returns the entity or nil when absent.
	FindByKey(ctx context.Context, key any) (*T, error)

	// List returns entities matching the non-zero fields of query,
	// in primary key order.
	List(ctx context.Context, offset, limit int, query *T) ([]*T, error)

	// Count returns the number of entities matching the non-zero fields
	// of query.
	Count(ctx context.Context, query *T) (int64, error)
}
