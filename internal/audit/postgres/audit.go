package postgres

import (
	"github.com/finledger/ledger-engine/internal/audit"
	auditDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ audit.Recorder = (*AuditRepository)(nil)
var _ audit.Reader = (*AuditRepository)(nil)

// Record inserts the entry using the caller's transaction handle, never the
// repository's own connection.
func (r *AuditRepository) Record(tx *gorm.DB, entry *auditDatamodel.AuditEntry) error {
	return tx.Create(entry).Error
}

func (r *AuditRepository) History(transactionID int64) ([]*auditDatamodel.AuditEntry, error) {
	var entries []*auditDatamodel.AuditEntry
	err := r.db.Where("transaction_id = ?", transactionID).
		Order("recorded_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *AuditRepository) HistoryByUser(userID int64, limit, offset int) ([]*auditDatamodel.AuditEntry, error) {
	var entries []*auditDatamodel.AuditEntry
	err := r.db.Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}
