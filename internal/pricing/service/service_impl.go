package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/jprocessing/internal/clock"
	"github.com/smallbiznis/jprocessing/internal/money"
	obsmetrics "github.com/smallbiznis/jprocessing/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/jprocessing/internal/pricing/domain"
	productdomain "github.com/smallbiznis/jprocessing/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        pricingdomain.Repository
	ProductRepo productdomain.Repository
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        pricingdomain.Repository
	productRepo productdomain.Repository
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) pricingdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("pricing.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Service) CreateRule(ctx context.Context, req pricingdomain.CreateRuleRequest) (*pricingdomain.ProductPrice, error) {
	if req.Value.Sign() < 0 || req.MinQuantity.Sign() < 0 {
		return nil, pricingdomain.ErrInvalidRule
	}

	product, err := s.productRepo.FindByID(ctx, s.db, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}

	rule := &pricingdomain.ProductPrice{
		ID:          s.genID.Generate(),
		ProductID:   req.ProductID,
		Priority:    req.Priority,
		MinQuantity: money.Normalize(req.MinQuantity),
		Model:       pricingdomain.ModelFull,
		Value:       money.Normalize(req.Value),
		CreatedAt:   s.clock.Now(),
	}
	rule.SetGroups(req.Groups)

	if err := s.repo.Insert(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("price rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("product_id", rule.ProductID.String()),
		zap.Int("priority", rule.Priority),
	)
	return rule, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID snowflake.ID) ([]*pricingdomain.ProductPrice, error) {
	return s.repo.ListByProduct(ctx, s.db, productID)
}

func (s *Service) DeleteRule(ctx context.Context, id snowflake.ID) error {
	rule, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if rule == nil {
		return pricingdomain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) Resolve(ctx context.Context, productID snowflake.ID, customerGroup string, quantity decimal.Decimal) (*pricingdomain.Resolution, error) {
	rules, err := s.repo.ListByProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}

	// Rules arrive ordered by priority desc, id asc, so the first
	// applicable rule is the winner.
	var winner *pricingdomain.ProductPrice
	for _, rule := range rules {
		if rule.IsActiveFor(customerGroup, quantity) {
			winner = rule
			break
		}
	}
	if winner == nil {
		return nil, pricingdomain.ErrNoApplicablePrice
	}

	s.obsMetrics.RecordPriceResolution(ctx)
	return &pricingdomain.Resolution{
		Value:  winner.Value,
		Model:  winner.Model,
		RuleID: winner.ID,
	}, nil
}
