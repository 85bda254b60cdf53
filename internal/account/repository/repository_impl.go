package repository

import (
	"context"
	"time"

	accountdomain "github.com/smallbiznis/jprocessing/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() accountdomain.Repository {
	return &repo{}
}

func (r *repo) InsertAccount(ctx context.Context, db *gorm.DB, a *accountdomain.Account) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounts (id, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		a.ID,
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	).Error
}

func (r *repo) FindAccount(ctx context.Context, db *gorm.DB, id int64) (*accountdomain.Account, error) {
	var a accountdomain.Account
	err := db.WithContext(ctx).Raw(
		`SELECT id, active, created_at, updated_at FROM accounts WHERE id = ?`,
		id,
	).Scan(&a).Error
	if err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, nil
	}
	return &a, nil
}

func (r *repo) DeactivateAccount(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE accounts SET active = ?, updated_at = ? WHERE id = ?`,
		false,
		at,
		id,
	).Error
}

func (r *repo) InsertRecord(ctx context.Context, db *gorm.DB, rec *accountdomain.AccountingRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO accounting_records (id, account_id, record_type, timestamp, amount)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID,
		rec.AccountID,
		string(rec.RecordType),
		rec.Timestamp,
		rec.Amount,
	).Error
}

func (r *repo) LastSummary(ctx context.Context, db *gorm.DB, accountID int64, asOf time.Time) (*accountdomain.AccountingRecord, error) {
	var rec accountdomain.AccountingRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, account_id, record_type, timestamp, amount
		 FROM accounting_records
		 WHERE account_id = ? AND record_type = ? AND timestamp <= ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT 1`,
		accountID,
		string(accountdomain.RecordTypeSummary),
		asOf,
	).Scan(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, nil
	}
	return &rec, nil
}

func (r *repo) ListRecordsBetween(ctx context.Context, db *gorm.DB, accountID int64, after *accountdomain.AccountingRecord, asOf time.Time) ([]accountdomain.AccountingRecord, error) {
	var records []accountdomain.AccountingRecord

	query := `SELECT id, account_id, record_type, timestamp, amount
		 FROM accounting_records
		 WHERE account_id = ? AND record_type <> ? AND timestamp <= ?`
	args := []any{accountID, string(accountdomain.RecordTypeSummary), asOf}
	if after != nil {
		query += ` AND (timestamp > ? OR (timestamp = ? AND id > ?))`
		args = append(args, after.Timestamp, after.Timestamp, after.ID)
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	err := db.WithContext(ctx).Raw(query, args...).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) InsertWithdraw(ctx context.Context, db *gorm.DB, w *accountdomain.WithdrawRequest) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO withdraw_requests (id, account_id, accounting_record_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		w.ID,
		w.AccountID,
		w.AccountingRecordID,
		w.CreatedAt,
	).Error
}
