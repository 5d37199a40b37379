package repository

import (
	"context"
	"errors"
	"time"

	"refearn/internal/domain"
	"refearn/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerRepository is the earning ledger: an append-only set of Earning rows
// plus the beneficiary balances they justify. The two are written in one DB
// transaction so neither can observably exist without the other.
type LedgerRepository struct {
	db       *gorm.DB
	attempts int
	timeout  time.Duration
}

func NewLedgerRepository(db *gorm.DB, attempts int, timeout time.Duration) *LedgerRepository {
	if attempts < 1 {
		attempts = 1
	}
	return &LedgerRepository{db: db, attempts: attempts, timeout: timeout}
}

// Commit applies each tuple independently and in order. A failed tuple never
// rolls back an earlier one; its result carries the reason instead.
func (r *LedgerRepository) Commit(ctx context.Context, txn *models.Transaction, tuples []domain.CommissionTuple) []domain.EarningWriteResult {
	results := make([]domain.EarningWriteResult, 0, len(tuples))
	for _, t := range tuples {
		results = append(results, r.commitOne(ctx, txn, t))
	}
	return results
}

func (r *LedgerRepository) commitOne(ctx context.Context, txn *models.Transaction, t domain.CommissionTuple) domain.EarningWriteResult {
	res := domain.EarningWriteResult{Tuple: t}
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		status, balance, err := r.tryCommit(ctx, txn, t)
		if err == nil {
			res.Status = status
			res.NewBalanceCents = balance
			return res
		}
		lastErr = err
		if !domain.IsTransient(err) {
			break
		}
		logrus.WithFields(logrus.Fields{
			"transaction": txn.Reference,
			"level":       t.Level,
			"attempt":     attempt,
		}).WithError(err).Warn("ledger commit retrying")
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			attempt = r.attempts // stop retrying
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	res.Status = domain.WriteFailed
	res.Err = lastErr
	return res
}

// tryCommit performs one atomic check-and-insert plus balance increment.
// The unique index on (transaction_id, referral_level) is the backstop for
// two replays racing past the existence check.
func (r *LedgerRepository) tryCommit(ctx context.Context, txn *models.Transaction, t domain.CommissionTuple) (string, int64, error) {
	cctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	status := domain.WriteApplied
	err := r.db.WithContext(cctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Earning
		err := tx.Where("transaction_id = ? AND referral_level = ?", txn.ID, t.Level).First(&existing).Error
		if err == nil {
			return domain.ErrDuplicateEarning
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.TransientError{Op: "ledger lookup", Err: err}
		}
		earning := models.Earning{
			UserID:        t.BeneficiaryID,
			AmountCents:   t.AmountCents,
			ReferralLevel: t.Level,
			TransactionID: txn.ID,
		}
		if err := tx.Create(&earning).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEarning
			}
			return &domain.TransientError{Op: "earning insert", Err: err}
		}
		// Atomic increment, not read-modify-write: concurrent credits to the
		// same beneficiary must serialize without lost updates.
		incr := tx.Model(&models.User{}).Where("id = ?", t.BeneficiaryID).
			UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", t.AmountCents))
		if incr.Error != nil {
			return &domain.TransientError{Op: "balance increment", Err: incr.Error}
		}
		if incr.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateEarning) {
		status = domain.WriteAlreadyApplied
		err = nil
	}
	if err != nil {
		return domain.WriteFailed, 0, err
	}

	var balance int64
	if err := r.db.WithContext(cctx).Model(&models.User{}).Select("balance_cents").
		Where("id = ?", t.BeneficiaryID).Scan(&balance).Error; err != nil {
		// Credit is durable; the balance readback only feeds the push payload.
		logrus.WithError(err).Warn("balance readback failed")
	}
	return status, balance, nil
}

// ListByUserID returns a beneficiary's earnings, most recent first, each with
// its originating transaction.
func (r *LedgerRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Earning, error) {
	var list []models.Earning
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Preload("Transaction").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// SumByTransactionID returns the total commission paid out for a transaction.
func (r *LedgerRepository) SumByTransactionID(ctx context.Context, transactionID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Earning{}).
		Where("transaction_id = ?", transactionID).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}
