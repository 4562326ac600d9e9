package audit

import (
	"time"

	auditDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/audit"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

// SystemActor is recorded as changed_by when a mutation arrives without an
// explicit actor.
const SystemActor = "system"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type Entry struct {
	ID            int64            `json:"id"`
	TransactionID int64            `json:"transaction_id"`
	UserID        int64            `json:"user_id"`
	Action        Action           `json:"action"`
	OldAmount     *decimal.Decimal `json:"old_amount,omitempty"`
	NewAmount     *decimal.Decimal `json:"new_amount,omitempty"`
	OldCategoryID *int64           `json:"old_category_id,omitempty"`
	NewCategoryID *int64           `json:"new_category_id,omitempty"`
	ChangedBy     string           `json:"changed_by"`
	RecordedAt    time.Time        `json:"recorded_at"`
}

// NormalizeActor substitutes the system principal for an empty actor.
func NormalizeActor(actor string) string {
	if actor == "" {
		return SystemActor
	}
	return actor
}

// NewCreatedEntry captures the state of a freshly inserted transaction.
// old_* stay null for creations.
func NewCreatedEntry(txn *transactionDatamodel.Transaction, actor string) *auditDatamodel.AuditEntry {
	amount := txn.Amount
	categoryID := txn.CategoryID
	return &auditDatamodel.AuditEntry{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		Action:        string(ActionCreated),
		NewAmount:     &amount,
		NewCategoryID: &categoryID,
		ChangedBy:     NormalizeActor(actor),
		RecordedAt:    time.Now(),
	}
}

// NewUpdatedEntry captures both sides of an update; unchanged fields repeat
// the old value on the new side.
func NewUpdatedEntry(old, updated *transactionDatamodel.Transaction, actor string) *auditDatamodel.AuditEntry {
	oldAmount := old.Amount
	newAmount := updated.Amount
	oldCategoryID := old.CategoryID
	newCategoryID := updated.CategoryID
	return &auditDatamodel.AuditEntry{
		TransactionID: old.ID,
		UserID:        old.UserID,
		Action:        string(ActionUpdated),
		OldAmount:     &oldAmount,
		NewAmount:     &newAmount,
		OldCategoryID: &oldCategoryID,
		NewCategoryID: &newCategoryID,
		ChangedBy:     NormalizeActor(actor),
		RecordedAt:    time.Now(),
	}
}

// NewDeletedEntry captures the record as it was just before removal.
// new_* stay null for deletions.
func NewDeletedEntry(old *transactionDatamodel.Transaction, actor string) *auditDatamodel.AuditEntry {
	amount := old.Amount
	categoryID := old.CategoryID
	return &auditDatamodel.AuditEntry{
		TransactionID: old.ID,
		UserID:        old.UserID,
		Action:        string(ActionDeleted),
		OldAmount:     &amount,
		OldCategoryID: &categoryID,
		ChangedBy:     NormalizeActor(actor),
		RecordedAt:    time.Now(),
	}
}

func FromDataModel(e *auditDatamodel.AuditEntry) *Entry {
	return &Entry{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		UserID:        e.UserID,
		Action:        Action(e.Action),
		OldAmount:     e.OldAmount,
		NewAmount:     e.NewAmount,
		OldCategoryID: e.OldCategoryID,
		NewCategoryID: e.NewCategoryID,
		ChangedBy:     e.ChangedBy,
		RecordedAt:    e.RecordedAt,
	}
}

func FromDataModelSlice(entries []*auditDatamodel.AuditEntry) []*Entry {
	result := make([]*Entry, len(entries))
	for i, e := range entries {
		result[i] = FromDataModel(e)
	}
	return result
}
