package postgres

import (
	"errors"
	"time"

	"github.com/finledger/ledger-engine/internal/audit"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"github.com/finledger/ledger-engine/internal/ledger"
	"gorm.io/gorm"
)

// LedgerRepository implements ledger.RepositoryAPI using GORM. Every
// mutation runs in one db.Transaction together with its audit insert.
// Same-row races are handled optimistically: the write predicate includes
// the updated_at read at the start of the unit, and a lost race surfaces as
// ErrConcurrentModification for the caller to retry.
type LedgerRepository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewLedgerRepository(db *gorm.DB, recorder audit.Recorder) ledger.RepositoryAPI {
	return &LedgerRepository{db: db, recorder: recorder}
}

// ErrConcurrentModification reports a lost optimistic-concurrency race.
// It is an infrastructure error, retryable by the caller.
var ErrConcurrentModification = errors.New("transaction modified concurrently, retry")

func (r *LedgerRepository) CreateWithAudit(txn *transactionDatamodel.Transaction, actor string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return r.recorder.Record(tx, audit.NewCreatedEntry(txn, actor))
	})
}

func (r *LedgerRepository) UpdateWithAudit(userID, id int64, changes ledger.Changes, actor string) (*transactionDatamodel.Transaction, error) {
	// An empty change set mutates nothing, so it earns no audit entry.
	if changes.IsEmpty() {
		return r.GetByID(userID, id)
	}

	var updated *transactionDatamodel.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var old transactionDatamodel.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&old).Error; err != nil {
			return err
		}

		next := old
		if changes.Amount != nil {
			next.Amount = *changes.Amount
		}
		if changes.CategoryID != nil {
			next.CategoryID = *changes.CategoryID
		}
		next.UpdatedAt = time.Now()

		res := tx.Model(&transactionDatamodel.Transaction{}).
			Where("id = ? AND user_id = ? AND updated_at = ?", id, userID, old.UpdatedAt).
			Updates(map[string]interface{}{
				"amount":      next.Amount,
				"category_id": next.CategoryID,
				"updated_at":  next.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentModification
		}

		if err := r.recorder.Record(tx, audit.NewUpdatedEntry(&old, &next, actor)); err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

func (r *LedgerRepository) DeleteWithAudit(userID, id int64, actor string) (*transactionDatamodel.Transaction, error) {
	var deleted *transactionDatamodel.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var old transactionDatamodel.Transaction
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&old).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ? AND updated_at = ?", id, userID, old.UpdatedAt).
			Delete(&transactionDatamodel.Transaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentModification
		}

		if err := r.recorder.Record(tx, audit.NewDeletedEntry(&old, actor)); err != nil {
			return err
		}

		deleted = &old
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return deleted, nil
}

func (r *LedgerRepository) GetByID(userID, id int64) (*transactionDatamodel.Transaction, error) {
	var txn transactionDatamodel.Transaction
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *LedgerRepository) ListByUser(userID int64, limit, offset int) ([]*transactionDatamodel.Transaction, error) {
	var transactions []*transactionDatamodel.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

// TopForPeriod feeds the monthly report: largest amounts first, id breaks
// ties so the order is stable.
func (r *LedgerRepository) TopForPeriod(userID int64, start, end time.Time, limit int) ([]*transactionDatamodel.Transaction, error) {
	var transactions []*transactionDatamodel.Transaction
	err := r.db.Where("user_id = ? AND occurred_at >= ? AND occurred_at <= ?", userID, start, end).
		Order("amount DESC, id ASC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}
