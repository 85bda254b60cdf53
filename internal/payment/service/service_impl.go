package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/jprocessing/internal/account/domain"
	"github.com/smallbiznis/jprocessing/internal/clock"
	invoicedomain "github.com/smallbiznis/jprocessing/internal/invoice/domain"
	"github.com/smallbiznis/jprocessing/internal/money"
	obsmetrics "github.com/smallbiznis/jprocessing/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/jprocessing/internal/payment/domain"
	"github.com/smallbiznis/jprocessing/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        paymentdomain.Repository
	AccountSvc  accountdomain.Service
	InvoiceRepo invoicedomain.Repository
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        paymentdomain.Repository
	accountSvc  accountdomain.Service
	invoiceRepo invoicedomain.Repository
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		accountSvc:  p.AccountSvc,
		invoiceRepo: p.InvoiceRepo,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (*paymentdomain.Payment, error) {
	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" || len(transactionID) > 128 {
		return nil, paymentdomain.ErrInvalidTransactionID
	}
	if req.Amount.Sign() <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, paymentdomain.ErrInvalidCurrency
	}

	if _, err := s.accountSvc.Get(ctx, req.AccountID); err != nil {
		return nil, err
	}

	payment := &paymentdomain.Payment{
		ID:            s.genID.Generate(),
		AccountID:     req.AccountID,
		TransactionID: transactionID,
		Processor:     req.Processor,
		Status:        paymentdomain.StatusPending,
		Amount:        money.Normalize(req.Amount),
		Currency:      currency,
		Properties:    datatypes.JSONMap(req.Properties),
		StartTime:     s.clock.Now(),
		InvoiceID:     req.InvoiceID,
	}
	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, paymentdomain.ErrDuplicateTransaction
		}
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("processor", payment.Processor),
	)
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, paymentdomain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*paymentdomain.Payment, error) {
	payment, err := s.repo.FindByTransactionID(ctx, s.db, transactionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, paymentdomain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID int64) ([]paymentdomain.Payment, error) {
	return s.repo.ListByAccount(ctx, s.db, accountID)
}

func (s *Service) Complete(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	return s.settle(ctx, id, paymentdomain.StatusComplete)
}

func (s *Service) Refund(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	return s.settle(ctx, id, paymentdomain.StatusRefund)
}

// settle writes the ledger record and the status flip in one transaction,
// owned by AppendRecordWith so the account lock is held before the
// transaction opens. The conditional update in Settle keeps a lost race
// (payment already settled elsewhere) from producing a second ledger
// record: the transaction rolls the append back.
func (s *Service) settle(ctx context.Context, id snowflake.ID, status paymentdomain.Status) (*paymentdomain.Payment, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status.Terminal() {
		return nil, paymentdomain.ErrTerminalState
	}

	recordType := accountdomain.RecordTypeDebit
	amount := payment.Amount
	if status == paymentdomain.StatusRefund {
		recordType = accountdomain.RecordTypeCredit
		amount = amount.Neg()
	}

	_, err = s.accountSvc.AppendRecordWith(ctx, payment.AccountID, recordType, amount, func(tx *gorm.DB, record *accountdomain.AccountingRecord) error {
		now := s.clock.Now()
		payment.Status = status
		payment.EndTime = &now
		payment.AccountingRecordID = &record.ID

		if err := paymentdomain.VerifyConsistency(payment); err != nil {
			return err
		}

		updated, err := s.repo.Settle(ctx, tx, payment)
		if err != nil {
			return err
		}
		if updated == 0 {
			return paymentdomain.ErrTerminalState
		}

		if payment.InvoiceID != nil {
			return s.invoiceRepo.SetPaymentTime(ctx, tx, *payment.InvoiceID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.obsMetrics.RecordPaymentSettled(ctx, string(status))
	s.log.Info("payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(status)),
		zap.String("amount", payment.Amount.String()),
	)
	return payment, nil
}

func (s *Service) Close(ctx context.Context, id snowflake.ID, status paymentdomain.Status) (*paymentdomain.Payment, error) {
	if !status.Closing() {
		return nil, paymentdomain.ErrInvalidStatus
	}

	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status.Terminal() {
		return nil, paymentdomain.ErrTerminalState
	}

	now := s.clock.Now()
	payment.Status = status
	payment.EndTime = &now
	payment.AccountingRecordID = nil

	updated, err := s.repo.Settle(ctx, s.db, payment)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, paymentdomain.ErrTerminalState
	}

	s.obsMetrics.RecordPaymentSettled(ctx, string(status))
	s.log.Info("payment closed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(status)),
	)
	return payment, nil
}
