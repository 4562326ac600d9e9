package audit

import (
	auditDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

// Recorder appends audit entries. Record takes the caller's open gorm
// transaction handle so the ledger mutation and its audit entry commit or
// roll back as one unit; the ledger repository is the only caller.
type Recorder interface {
	Record(tx *gorm.DB, entry *auditDatamodel.AuditEntry) error
}

// Reader exposes the append-only trail for inspection.
type Reader interface {
	History(transactionID int64) ([]*auditDatamodel.AuditEntry, error)
	HistoryByUser(userID int64, limit, offset int) ([]*auditDatamodel.AuditEntry, error)
}
