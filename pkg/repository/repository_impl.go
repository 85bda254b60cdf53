package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type store[T any] struct {
	db  *gorm.DB
	log *zap.Logger
}

func ProvideStore[T any](db *gorm.DB, log *zap.Logger) Store[T] {
	return &store[T]{db: db, log: log.Named("repository")}
}

// WithTrx returns a store bound to the given transaction handle.
func WithTrx[T any](s Store[T], tx *gorm.DB) Store[T] {
	impl, ok := s.(*store[T])
	if !ok {
		return s
	}
	return &store[T]{db: tx, log: impl.log}
}

func (r *store[T]) Persist(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *store[T]) Merge(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *store[T]) Refresh(ctx context.Context, entity *T) error {
	key, err := r.primaryKey(ctx, entity)
	if err != nil {
		return err
	}

	var fresh T
	err = r.db.WithContext(ctx).First(&fresh, "id = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Warn("refresh skipped, entity no longer exists", zap.Any("key", key))
		return nil
	}
	if err != nil {
		return err
	}
	*entity = fresh
	return nil
}

// primaryKey reads the entity's primary key value. Matching on field values
// would miss rows whose mutable columns changed, which is exactly what
// Refresh is for.
func (r *store[T]) primaryKey(ctx context.Context, entity *T) (any, error) {
	stmt := &gorm.Statement{DB: r.db}
	if err := stmt.Parse(entity); err != nil {
		return nil, err
	}
	field := stmt.Schema.PrioritizedPrimaryField
	if field == nil {
		return nil, fmt.Errorf("no primary key on %s", stmt.Schema.Name)
	}
	key, _ := field.ValueOf(ctx, reflect.ValueOf(entity))
	return key, nil
}

func (r *store[T]) Remove(ctx context.Context, key any) error {
	var dummy T
	return r.db.WithContext(ctx).Where("id = ?", key).Delete(&dummy).Error
}

func (r *store[T]) FindByKey(ctx context.Context, key any) (*T, error) {
	var result T
	err := r.db.WithContext(ctx).First(&result, "id = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *store[T]) List(ctx context.Context, offset, limit int, query *T) ([]*T, error) {
	var result []*T
	stmt := r.db.WithContext(ctx).Where(query).Order("id ASC")
	if offset > 0 {
		stmt = stmt.Offset(offset)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	err := stmt.Find(&result).Error
	return result, err
}

func (r *store[T]) Count(ctx context.Context, query *T) (int64, error) {
	var count int64
	var dummy T
	err := r.db.WithContext(ctx).Model(&dummy).Where(query).Count(&count).Error
	return count, err
}
