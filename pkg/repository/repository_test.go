package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	customerdomain "github.com/smallbiznis/jprocessing/internal/customer/domain"
	"github.com/smallbiznis/jprocessing/pkg/repository"
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

	if err := db.Exec(`CREATE TABLE customers (
		id BIGINT PRIMARY KEY,
		login TEXT NOT NULL,
		email TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		info VARCHAR(128) NOT NULL,
		updated DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("schema exec failed: %v", err)
	}

	return db
}

func newStore(t *testing.T) repository.Store[customerdomain.Customer] {
	t.Helper()
	return repository.ProvideStore[customerdomain.Customer](setupTestDB(t), zap.NewNop())
}

func seed(t *testing.T, s repository.Store[customerdomain.Customer], id int64, login string, active bool) *customerdomain.Customer {
	t.Helper()

	c := &customerdomain.Customer{
		ID:      id,
		Login:   login,
		Email:   login + "@example.com",
		Active:  active,
		Updated: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := s.Persist(context.Background(), c); err != nil {
		t.Fatalf("persist: %v", err)
	}
	return c
}

func TestPersistAndFindByKey(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, 501, "alice", true)

	found, err := s.FindByKey(ctx, int64(501))
	if err != nil {
		t.Fatalf("find by key: %v", err)
	}
	if found == nil || found.Login != "alice" {
		t.Fatalf("expected alice, got %+v", found)
	}

	absent, err := s.FindByKey(ctx, int64(999))
	if err != nil {
		t.Fatalf("find absent: %v", err)
	}
	if absent != nil {
		t.Fatalf("expected nil for absent key, got %+v", absent)
	}
}

func TestMergeUpdatesRow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	c := seed(t, s, 501, "alice", true)

	c.Login = "alice-renamed"
	if err := s.Merge(ctx, c); err != nil {
		t.Fatalf("merge: %v", err)
	}

	found, err := s.FindByKey(ctx, int64(501))
	if err != nil {
		t.Fatalf("find by key: %v", err)
	}
	if found.Login != "alice-renamed" {
		t.Fatalf("expected merged login, got %s", found.Login)
	}
}

func TestRefreshReloadsChangedRow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	stale := seed(t, s, 501, "alice", true)

	renamed := *stale
	renamed.Login = "alice-renamed"
	if err := s.Merge(ctx, &renamed); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if err := s.Refresh(ctx, stale); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if stale.Login != "alice-renamed" {
		t.Fatalf("refresh left the entity stale: login=%q, want %q", stale.Login, "alice-renamed")
	}
}

func TestRefreshMissingRowIsSwallowed(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ghost := &customerdomain.Customer{ID: 999}
	if err := s.Refresh(ctx, ghost); err != nil {
		t.Fatalf("refresh of missing row must not fail: %v", err)
	}
	if ghost.ID != 999 {
		t.Fatalf("missing-row refresh must leave the entity untouched")
	}
}

func TestRemoveAndCount(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, 501, "alice", true)
	seed(t, s, 502, "bob", false)

	count, err := s.Count(ctx, &customerdomain.Customer{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	if err := s.Remove(ctx, int64(501)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	count, err = s.Count(ctx, &customerdomain.Customer{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after remove, got %d", count)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, 501, "alice", true)
	seed(t, s, 502, "bob", true)
	seed(t, s, 503, "carol", false)

	active, err := s.List(ctx, 0, 0, &customerdomain.Customer{Active: true})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active customers, got %d", len(active))
	}

	page, err := s.List(ctx, 1, 1, &customerdomain.Customer{})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != 502 {
		t.Fatalf("expected second row 502, got %+v", page)
	}
}
