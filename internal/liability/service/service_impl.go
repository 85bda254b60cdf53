package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/jprocessing/internal/account/domain"
	"github.com/smallbiznis/jprocessing/internal/clock"
	liabilitydomain "github.com/smallbiznis/jprocessing/internal/liability/domain"
	"github.com/smallbiznis/jprocessing/internal/money"
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
	Repo        liabilitydomain.Repository
	AccountRepo accountdomain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        liabilitydomain.Repository
	accountRepo accountdomain.Repository
	productRepo productdomain.Repository
}

func NewService(p Params) liabilitydomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("liability.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		accountRepo: p.AccountRepo,
		productRepo: p.ProductRepo,
	}
}

func (s *Service) Create(ctx context.Context, req liabilitydomain.CreateLiabilityRequest) (*liabilitydomain.Liability, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, liabilitydomain.ErrInvalidQuantity
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, liabilitydomain.ErrInvalidCurrency
	}

	account, err := s.accountRepo.FindAccount(ctx, s.db, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}

	product, err := s.productRepo.FindByID(ctx, s.db, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}

	quantity := money.Normalize(req.Quantity)
	if !product.Fractional && !quantity.IsInteger() {
		return nil, liabilitydomain.ErrFractionalQuantity
	}

	unitPrice := money.Normalize(req.UnitPrice)
	liability := &liabilitydomain.Liability{
		ID:         s.genID.Generate(),
		AccountID:  req.AccountID,
		ProductID:  req.ProductID,
		UnitPrice:  unitPrice,
		Currency:   currency,
		Quantity:   quantity,
		PriceTotal: money.LineTotal(unitPrice, quantity),
		CreateTime: s.clock.Now(),
		ExpireTime: req.Expire,
	}
	if err := s.repo.Insert(ctx, s.db, liability); err != nil {
		return nil, err
	}

	s.log.Info("liability created",
		zap.String("liability_id", liability.ID.String()),
		zap.Int64("account_id", liability.AccountID),
		zap.String("price_total", liability.PriceTotal.String()),
	)
	return liability, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*liabilitydomain.Liability, error) {
	liability, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if liability == nil {
		return nil, liabilitydomain.ErrNotFound
	}
	return liability, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID int64) ([]liabilitydomain.Liability, error) {
	return s.repo.ListByAccount(ctx, s.db, accountID)
}

func (s *Service) Settle(ctx context.Context, recordID snowflake.ID, liabilityIDs ...snowflake.ID) error {
	if len(liabilityIDs) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range liabilityIDs {
			liability, err := s.repo.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if liability == nil {
				return liabilitydomain.ErrNotFound
			}
			if liability.Settled() {
				return liabilitydomain.ErrAlreadySettled
			}
		}

		updated, err := s.repo.LinkRecord(ctx, tx, recordID, liabilityIDs)
		if err != nil {
			return err
		}
		if updated != int64(len(liabilityIDs)) {
			return liabilitydomain.ErrAlreadySettled
		}
		return nil
	})
}
