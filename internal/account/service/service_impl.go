package service

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/jprocessing/internal/account/domain"
	"github.com/smallbiznis/jprocessing/internal/clock"
	"github.com/smallbiznis/jprocessing/internal/money"
	obsmetrics "github.com/smallbiznis/jprocessing/internal/observability/metrics"
	"github.com/smallbiznis/jprocessing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// lockStripes bounds memory spent on per-account serialization. Two accounts
// sharing a stripe only cost contention, never correctness.
const lockStripes = 64

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       accountdomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       accountdomain.Repository
	obsMetrics *obsmetrics.Metrics

	locks [lockStripes]sync.Mutex
}

func NewService(p Params) accountdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("account.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) lock(accountID int64) *sync.Mutex {
	return &s.locks[uint64(accountID)%lockStripes]
}

func (s *Service) Open(ctx context.Context, billingID int64) (*accountdomain.Account, error) {
	if billingID == 0 {
		return nil, accountdomain.ErrNotFound
	}

	now := s.clock.Now()
	account := &accountdomain.Account{
		ID:        billingID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertAccount(ctx, s.db, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrDuplicateAccount
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) Deactivate(ctx context.Context, billingID int64) error {
	account, err := s.repo.FindAccount(ctx, s.db, billingID)
	if err != nil {
		return err
	}
	if account == nil {
		return accountdomain.ErrNotFound
	}
	return s.repo.DeactivateAccount(ctx, s.db, billingID, s.clock.Now())
}

func (s *Service) Get(ctx context.Context, billingID int64) (*accountdomain.Account, error) {
	account, err := s.repo.FindAccount(ctx, s.db, billingID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}
	return account, nil
}

func (s *Service) AppendRecord(ctx context.Context, accountID int64, recordType accountdomain.RecordType, amount decimal.Decimal) (*accountdomain.AccountingRecord, error) {
	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	return s.appendLocked(ctx, s.db, accountID, recordType, amount)
}

func (s *Service) AppendRecordWith(ctx context.Context, accountID int64, recordType accountdomain.RecordType, amount decimal.Decimal, fn func(tx *gorm.DB, record *accountdomain.AccountingRecord) error) (*accountdomain.AccountingRecord, error) {
	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	var record *accountdomain.AccountingRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.appendLocked(ctx, tx, accountID, recordType, amount)
		if err != nil {
			return err
		}
		record = rec
		return fn(tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// appendLocked writes one record. Callers must hold the account stripe lock.
func (s *Service) appendLocked(ctx context.Context, tx *gorm.DB, accountID int64, recordType accountdomain.RecordType, amount decimal.Decimal) (*accountdomain.AccountingRecord, error) {
	normalized := money.Normalize(amount)
	if err := validateRecord(recordType, normalized); err != nil {
		return nil, err
	}

	account, err := s.repo.FindAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}
	if !account.Active {
		return nil, accountdomain.ErrAccountInactive
	}

	record := &accountdomain.AccountingRecord{
		ID:         s.genID.Generate(),
		AccountID:  accountID,
		RecordType: recordType,
		Timestamp:  s.clock.Now(),
		Amount:     normalized,
	}
	if err := s.repo.InsertRecord(ctx, tx, record); err != nil {
		return nil, err
	}

	s.obsMetrics.RecordLedgerAppend(ctx, string(recordType))
	s.log.Debug("ledger record appended",
		zap.Int64("account_id", accountID),
		zap.String("record_type", string(recordType)),
		zap.String("amount", normalized.String()),
	)
	return record, nil
}

func validateRecord(recordType accountdomain.RecordType, amount decimal.Decimal) error {
	switch recordType {
	case accountdomain.RecordTypeDebit:
		if amount.Sign() < 0 {
			return accountdomain.ErrAmountSign
		}
	case accountdomain.RecordTypeCredit:
		if amount.Sign() > 0 {
			return accountdomain.ErrAmountSign
		}
	case accountdomain.RecordTypeSummary:
	default:
		return accountdomain.ErrInvalidRecordType
	}
	return nil
}

func (s *Service) Balance(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error) {
	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	return s.balanceLocked(ctx, accountID, asOf)
}

// balanceLocked derives the balance from the log: the newest SUMMARY
// checkpoint at or before asOf, plus every DEBIT/CREDIT appended after it
// up to asOf. Records sharing the checkpoint's timestamp are kept or dropped
// by comparing ids, so a coarse clock never loses a record.
func (s *Service) balanceLocked(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.repo.FindAccount(ctx, s.db, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account == nil {
		return decimal.Zero, accountdomain.ErrNotFound
	}

	balance := decimal.Zero

	summary, err := s.repo.LastSummary(ctx, s.db, accountID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if summary != nil {
		balance = summary.Amount
	}

	records, err := s.repo.ListRecordsBetween(ctx, s.db, accountID, summary, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	for _, rec := range records {
		balance = balance.Add(rec.Amount)
	}

	return balance, nil
}

func (s *Service) Checkpoint(ctx context.Context, accountID int64) (*accountdomain.AccountingRecord, error) {
	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	balance, err := s.balanceLocked(ctx, accountID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.appendLocked(ctx, s.db, accountID, accountdomain.RecordTypeSummary, balance)
}

func (s *Service) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*accountdomain.WithdrawRequest, error) {
	if amount.Sign() <= 0 {
		return nil, accountdomain.ErrInvalidWithdraw
	}

	mu := s.lock(accountID)
	mu.Lock()
	defer mu.Unlock()

	var withdraw *accountdomain.WithdrawRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.appendLocked(ctx, tx, accountID, accountdomain.RecordTypeCredit, amount.Neg())
		if err != nil {
			return err
		}
		withdraw = &accountdomain.WithdrawRequest{
			ID:                 s.genID.Generate(),
			AccountID:          accountID,
			AccountingRecordID: record.ID,
			CreatedAt:          s.clock.Now(),
		}
		return s.repo.InsertWithdraw(ctx, tx, withdraw)
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}
