package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/jprocessing/internal/clock"
	invoicedomain "github.com/smallbiznis/jprocessing/internal/invoice/domain"
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
	Repo        invoicedomain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        invoicedomain.Repository
	productRepo productdomain.Repository
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
	}
}

func (s *Service) buildItem(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, req invoicedomain.ItemRequest) (*invoicedomain.InvoiceItem, error) {
	if req.Quantity.Sign() <= 0 {
		return nil, invoicedomain.ErrInvalidQuantity
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, invoicedomain.ErrInvalidCurrency
	}

	product, err := s.productRepo.FindByID(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}

	quantity := money.Normalize(req.Quantity)
	if !product.Fractional && !quantity.IsInteger() {
		return nil, invoicedomain.ErrInvalidQuantity
	}

	return &invoicedomain.InvoiceItem{
		ID:        s.genID.Generate(),
		InvoiceID: invoiceID,
		ProductID: req.ProductID,
		UnitPrice: money.Normalize(req.UnitPrice),
		Currency:  currency,
		Quantity:  quantity,
	}, nil
}

func (s *Service) Create(ctx context.Context, items ...invoicedomain.ItemRequest) (*invoicedomain.Invoice, error) {
	invoice := &invoicedomain.Invoice{
		ID:         s.genID.Generate(),
		CreateTime: s.clock.Now(),
		Total:      decimal.Zero,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		built := make([]invoicedomain.InvoiceItem, 0, len(items))
		for _, req := range items {
			item, err := s.buildItem(ctx, tx, invoice.ID, req)
			if err != nil {
				return err
			}
			built = append(built, *item)
			total = total.Add(item.LineTotal())
		}

		invoice.Total = money.Round2(total)
		if err := s.repo.InsertInvoice(ctx, tx, invoice); err != nil {
			return err
		}
		for i := range built {
			if err := s.repo.InsertItem(ctx, tx, &built[i]); err != nil {
				return err
			}
		}
		invoice.Items = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("items", len(invoice.Items)),
		zap.String("total", invoice.Total.String()),
	)
	return invoice, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindInvoice(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

func (s *Service) AddItem(ctx context.Context, invoiceID snowflake.ID, req invoicedomain.ItemRequest) (*invoicedomain.InvoiceItem, error) {
	invoice, err := s.repo.FindInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	if invoice.Paid() {
		return nil, invoicedomain.ErrAlreadyPaid
	}

	item, err := s.buildItem(ctx, s.db, invoiceID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertItem(ctx, s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) RecomputeTotal(ctx context.Context, invoiceID snowflake.ID) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrNotFound
		}

		items, err := s.repo.ListItems(ctx, tx, invoiceID)
		if err != nil {
			return err
		}

		total = decimal.Zero
		for i := range items {
			total = total.Add(items[i].LineTotal())
		}
		total = money.Round2(total)

		return s.repo.UpdateTotal(ctx, tx, invoiceID, total)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Service) MarkPaid(ctx context.Context, invoiceID snowflake.ID, at time.Time) error {
	invoice, err := s.repo.FindInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return invoicedomain.ErrNotFound
	}
	if invoice.Paid() {
		return invoicedomain.ErrAlreadyPaid
	}
	return s.repo.SetPaymentTime(ctx, s.db, invoiceID, at)
}
