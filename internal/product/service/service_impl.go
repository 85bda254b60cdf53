package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jprocessing/internal/clock"
	productdomain "github.com/smallbiznis/jprocessing/internal/product/domain"
	"github.com/smallbiznis/jprocessing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSKULen = 60

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  productdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  productdomain.Repository
}

func NewService(p Params) productdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req productdomain.CreateProductRequest) (*productdomain.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" || len(sku) > maxSKULen {
		return nil, productdomain.ErrInvalidSKU
	}

	subType := req.SubscriptionType
	if subType == "" {
		subType = productdomain.SubscriptionNone
	}
	if !subType.Valid() {
		return nil, productdomain.ErrInvalidSubscription
	}
	if subType == productdomain.SubscriptionNone && req.SubscriptionPeriod != 0 {
		return nil, productdomain.ErrInvalidSubscription
	}
	if subType != productdomain.SubscriptionNone && req.SubscriptionPeriod <= 0 {
		return nil, productdomain.ErrInvalidSubscription
	}

	now := s.clock.Now()
	product := &productdomain.Product{
		ID:                 s.genID.Generate(),
		SKU:                sku,
		Name:               req.Name,
		Description:        req.Description,
		Fractional:         req.Fractional,
		Available:          req.Available,
		SubscriptionType:   subType,
		SubscriptionPeriod: req.SubscriptionPeriod,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, s.db, product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, productdomain.ErrDuplicateSKU
		}
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return product, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*productdomain.Product, error) {
	product, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}
	return product, nil
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*productdomain.Product, error) {
	product, err := s.repo.FindBySKU(ctx, s.db, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}
	return product, nil
}

func (s *Service) SetAvailability(ctx context.Context, id snowflake.ID, available bool) (*productdomain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Deleted {
		return nil, productdomain.ErrNotFound
	}

	product.Available = available
	product.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if product.Deleted {
		return nil
	}
	return s.repo.MarkDeleted(ctx, s.db, id, s.clock.Now())
}

func (s *Service) List(ctx context.Context) ([]productdomain.Product, error) {
	return s.repo.List(ctx, s.db)
}
