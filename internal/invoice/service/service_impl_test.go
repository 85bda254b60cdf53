package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/jprocessing/internal/clock"
	invoicedomain "github.com/smallbiznis/jprocessing/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/jprocessing/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/jprocessing/internal/invoice/service"
	productdomain "github.com/smallbiznis/jprocessing/internal/product/domain"
	productrepo "github.com/smallbiznis/jprocessing/internal/product/repository"
	productservice "github.com/smallbiznis/jprocessing/internal/product/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			sku VARCHAR(60) NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			fractional BOOLEAN NOT NULL,
			available BOOLEAN NOT NULL,
			deleted BOOLEAN NOT NULL,
			subscription_type TEXT NOT NULL,
			subscription_period INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_products_sku ON products(sku)`,
		`CREATE TABLE invoices (
			id BIGINT PRIMARY KEY,
			create_time DATETIME NOT NULL,
			payment_time DATETIME,
			total NUMERIC(19,2) NOT NULL
		)`,
		`CREATE TABLE invoice_items (
			id BIGINT PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			unit_price NUMERIC(19,4) NOT NULL,
			currency CHAR(3) NOT NULL,
			quantity NUMERIC(19,4) NOT NULL
		)`,
		`CREATE INDEX ix_invoice_items_invoice ON invoice_items(invoice_id)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

type fixture struct {
	clk     *clock.FakeClock
	invoice invoicedomain.Service
	product *productdomain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	productSvc := productservice.NewService(productservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  productrepo.Provide(),
	})
	product, err := productSvc.Create(context.Background(), productdomain.CreateProductRequest{
		SKU:        "GB-TRAFFIC",
		Fractional: true,
		Available:  true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Repo:        invoicerepo.Provide(),
		ProductRepo: productrepo.Provide(),
	})

	return &fixture{clk: clk, invoice: invoiceSvc, product: product}
}

func TestCreateComputesInitialTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	invoice, err := f.invoice.Create(ctx,
		invoicedomain.ItemRequest{ProductID: f.product.ID, UnitPrice: decimal.RequireFromString("4.00"), Currency: "USD", Quantity: decimal.RequireFromString("2.5")},
		invoicedomain.ItemRequest{ProductID: f.product.ID, UnitPrice: decimal.RequireFromString("0.105"), Currency: "USD", Quantity: decimal.NewFromInt(1)},
	)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// 10.00 + 0.11, each line rounded before summing
	if !invoice.Total.Equal(decimal.RequireFromString("10.11")) {
		t.Fatalf("expected total 10.11, got %s", invoice.Total)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
}

func TestCreateEmptyInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	invoice, err := f.invoice.Create(ctx)
	if err != nil {
		t.Fatalf("create empty invoice: %v", err)
	}
	if !invoice.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", invoice.Total)
	}

	total, err := f.invoice.RecomputeTotal(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("recompute empty invoice: %v", err)
	}
	if !total.IsZero() {
		t.Fatalf("expected zero recomputed total, got %s", total)
	}
}

func TestAddItemLeavesTotalStaleUntilRecompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	invoice, err := f.invoice.Create(ctx,
		invoicedomain.ItemRequest{ProductID: f.product.ID, UnitPrice: decimal.RequireFromString("4.00"), Currency: "USD", Quantity: decimal.NewFromInt(1)},
	)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if _, err := f.invoice.AddItem(ctx, invoice.ID, invoicedomain.ItemRequest{
		ProductID: f.product.ID,
		UnitPrice: decimal.RequireFromString("6.00"),
		Currency:  "USD",
		Quantity:  decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	stale, err := f.invoice.Get(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !stale.Total.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected stale total 4.00 before recompute, got %s", stale.Total)
	}
	if len(stale.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(stale.Items))
	}

	total, err := f.invoice.RecomputeTotal(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected total 10.00 after recompute, got %s", total)
	}
}

func TestMarkPaidIsFinal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	invoice, err := f.invoice.Create(ctx)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	paidAt := f.clk.Now()
	if err := f.invoice.MarkPaid(ctx, invoice.ID, paidAt); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	paid, err := f.invoice.Get(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !paid.Paid() {
		t.Fatalf("expected invoice to be paid")
	}

	if err := f.invoice.MarkPaid(ctx, invoice.ID, paidAt); !errors.Is(err, invoicedomain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	if _, err := f.invoice.AddItem(ctx, invoice.ID, invoicedomain.ItemRequest{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromInt(1),
		Currency:  "USD",
		Quantity:  decimal.NewFromInt(1),
	}); !errors.Is(err, invoicedomain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid on add item, got %v", err)
	}

	if err := f.invoice.MarkPaid(ctx, snowflake.ID(999), paidAt); !errors.Is(err, invoicedomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
