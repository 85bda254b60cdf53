package service

import (
	"context"
	"unicode/utf8"

	"github.com/smallbiznis/jprocessing/internal/clock"
	customerdomain "github.com/smallbiznis/jprocessing/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/jprocessing/internal/observability/metrics"
	"github.com/smallbiznis/jprocessing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxInfoLen = 128

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Repo       customerdomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	repo       customerdomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) customerdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("customer.service"),
		clock:      p.Clock,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
	}
}

func snapshot(ext customerdomain.ExternalCustomer) (*customerdomain.Customer, error) {
	if ext == nil || ext.BillingID() <= 0 {
		return nil, customerdomain.ErrInvalidBillingID
	}
	for _, code := range ext.Groups() {
		if !customerdomain.ValidGroupCode(code) {
			return nil, customerdomain.ErrInvalidGroupCode
		}
	}
	// info is bounded in characters, not bytes
	info := ext.ShortInfo()
	if utf8.RuneCountInString(info) > maxInfoLen {
		return nil, customerdomain.ErrInfoTooLong
	}

	return &customerdomain.Customer{
		ID:     ext.BillingID(),
		Login:  ext.Login(),
		Email:  ext.Email(),
		Active: ext.Active(),
		Info:   info,
	}, nil
}

func (s *Service) GetOrCreate(ctx context.Context, ext customerdomain.ExternalCustomer) (*customerdomain.Customer, error) {
	fresh, err := snapshot(ext)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	existing, err := s.repo.FindByID(ctx, s.db, fresh.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		fresh.Updated = now
		if err := s.repo.Insert(ctx, s.db, fresh); err != nil {
			// lost an insert race; the other writer's snapshot is
			// just as current
			if db.IsDuplicateKeyErr(err) {
				return s.Get(ctx, fresh.ID)
			}
			return nil, err
		}
		s.obsMetrics.RecordCustomerRefresh(ctx)
		s.log.Debug("customer cached", zap.Int64("billing_id", fresh.ID))
		return fresh, nil
	}

	cutoff := now.AddDate(0, -1, 0)
	if !existing.Updated.Before(cutoff) {
		return existing, nil
	}

	fresh.Updated = now
	updated, err := s.repo.RefreshIfOlder(ctx, s.db, fresh, cutoff)
	if err != nil {
		return nil, err
	}
	if updated > 0 {
		s.obsMetrics.RecordCustomerRefresh(ctx)
		s.log.Debug("customer snapshot refreshed", zap.Int64("billing_id", fresh.ID))
	}
	// updated == 0 means a concurrent refresh won; either way the stored
	// row is now current
	return s.Get(ctx, fresh.ID)
}

func (s *Service) Get(ctx context.Context, billingID int64) (*customerdomain.Customer, error) {
	customer, err := s.repo.FindByID(ctx, s.db, billingID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, customerdomain.ErrNotFound
	}
	return customer, nil
}
