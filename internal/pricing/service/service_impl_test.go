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
	pricingdomain "github.com/smallbiznis/jprocessing/internal/pricing/domain"
	pricingrepo "github.com/smallbiznis/jprocessing/internal/pricing/repository"
	pricingservice "github.com/smallbiznis/jprocessing/internal/pricing/service"
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
		`CREATE TABLE product_prices (
			id BIGINT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			priority INTEGER NOT NULL,
			min_quantity NUMERIC(19,4) NOT NULL,
			groups TEXT NOT NULL,
			model TEXT NOT NULL,
			value NUMERIC(19,4) NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX ix_product_prices_product ON product_prices(product_id)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

type testServices struct {
	pricing pricingdomain.Service
	product productdomain.Service
}

func newTestServices(t *testing.T, db *gorm.DB) testServices {
	t.Helper()

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	return testServices{
		pricing: pricingservice.NewService(pricingservice.Params{
			DB:          db,
			Log:         zap.NewNop(),
			GenID:       node,
			Clock:       clk,
			Repo:        pricingrepo.Provide(),
			ProductRepo: productrepo.Provide(),
		}),
		product: productservice.NewService(productservice.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: node,
			Clock: clk,
			Repo:  productrepo.Provide(),
		}),
	}
}

func seedProduct(t *testing.T, svc productdomain.Service, sku string) *productdomain.Product {
	t.Helper()

	product, err := svc.Create(context.Background(), productdomain.CreateProductRequest{
		SKU:        sku,
		Name:       sku,
		Fractional: true,
		Available:  true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestResolvePicksHighestPriority(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, setupTestDB(t))
	product := seedProduct(t, svcs.product, "GB-TRAFFIC")

	if _, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  1,
		Value:     decimal.RequireFromString("4.00"),
	}); err != nil {
		t.Fatalf("create base rule: %v", err)
	}
	vip, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  5,
		Groups:    []string{"VIP"},
		Value:     decimal.RequireFromString("2.50"),
	})
	if err != nil {
		t.Fatalf("create vip rule: %v", err)
	}

	res, err := svcs.pricing.Resolve(ctx, product.ID, "VIP", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("resolve vip: %v", err)
	}
	if res.RuleID != vip.ID {
		t.Fatalf("expected vip rule %s to win, got %s", vip.ID, res.RuleID)
	}
	if !res.Value.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("expected value 2.50, got %s", res.Value)
	}

	res, err = svcs.pricing.Resolve(ctx, product.ID, "BASIC", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("resolve basic: %v", err)
	}
	if !res.Value.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected fallback value 4.00, got %s", res.Value)
	}
}

func TestResolveTieBreaksOnLowestRuleID(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, setupTestDB(t))
	product := seedProduct(t, svcs.product, "GB-TRAFFIC")

	first, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  3,
		Value:     decimal.RequireFromString("3.00"),
	})
	if err != nil {
		t.Fatalf("create first rule: %v", err)
	}
	second, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  3,
		Value:     decimal.RequireFromString("3.50"),
	})
	if err != nil {
		t.Fatalf("create second rule: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected monotonic rule ids, got %s then %s", first.ID, second.ID)
	}

	res, err := svcs.pricing.Resolve(ctx, product.ID, "", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.RuleID != first.ID {
		t.Fatalf("expected tie to break to rule %s, got %s", first.ID, res.RuleID)
	}
}

func TestResolveHonorsMinQuantity(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, setupTestDB(t))
	product := seedProduct(t, svcs.product, "GB-TRAFFIC")

	if _, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  1,
		Value:     decimal.RequireFromString("4.00"),
	}); err != nil {
		t.Fatalf("create base rule: %v", err)
	}
	bulk, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID:   product.ID,
		Priority:    2,
		MinQuantity: decimal.NewFromInt(10),
		Value:       decimal.RequireFromString("3.00"),
	})
	if err != nil {
		t.Fatalf("create bulk rule: %v", err)
	}

	res, err := svcs.pricing.Resolve(ctx, product.ID, "", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("resolve small: %v", err)
	}
	if !res.Value.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected base price for qty 5, got %s", res.Value)
	}

	res, err = svcs.pricing.Resolve(ctx, product.ID, "", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("resolve bulk: %v", err)
	}
	if res.RuleID != bulk.ID {
		t.Fatalf("expected bulk rule for qty 10, got rule %s", res.RuleID)
	}
}

func TestResolveNoApplicablePrice(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, setupTestDB(t))
	product := seedProduct(t, svcs.product, "GB-TRAFFIC")

	if _, err := svcs.pricing.Resolve(ctx, product.ID, "", decimal.NewFromInt(1)); !errors.Is(err, pricingdomain.ErrNoApplicablePrice) {
		t.Fatalf("expected ErrNoApplicablePrice without rules, got %v", err)
	}

	if _, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Priority:  1,
		Groups:    []string{"VIP"},
		Value:     decimal.RequireFromString("2.50"),
	}); err != nil {
		t.Fatalf("create vip rule: %v", err)
	}

	if _, err := svcs.pricing.Resolve(ctx, product.ID, "BASIC", decimal.NewFromInt(1)); !errors.Is(err, pricingdomain.ErrNoApplicablePrice) {
		t.Fatalf("expected ErrNoApplicablePrice for non-member group, got %v", err)
	}
}

func TestCreateRuleValidation(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t, setupTestDB(t))
	product := seedProduct(t, svcs.product, "GB-TRAFFIC")

	if _, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: product.ID,
		Value:     decimal.RequireFromString("-1"),
	}); !errors.Is(err, pricingdomain.ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule for negative value, got %v", err)
	}

	if _, err := svcs.pricing.CreateRule(ctx, pricingdomain.CreateRuleRequest{
		ProductID: snowflake.ID(999),
		Value:     decimal.RequireFromString("1"),
	}); !errors.Is(err, productdomain.ErrNotFound) {
		t.Fatalf("expected product ErrNotFound, got %v", err)
	}
}
