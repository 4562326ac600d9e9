package audit

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditEntry rows are append-only. There is deliberately no foreign key to
// transactions so the deleted-action entry outlives its subject row.
type AuditEntry struct {
	ID            int64            `gorm:"primaryKey"`
	TransactionID int64            `gorm:"column:transaction_id;not null;index"`
	UserID        int64            `gorm:"column:user_id;not null"`
	Action        string           `gorm:"column:action;not null"`
	OldAmount     *decimal.Decimal `gorm:"column:old_amount;type:numeric(14,2)"`
	NewAmount     *decimal.Decimal `gorm:"column:new_amount;type:numeric(14,2)"`
	OldCategoryID *int64           `gorm:"column:old_category_id"`
	NewCategoryID *int64           `gorm:"column:new_category_id"`
	ChangedBy     string           `gorm:"column:changed_by;not null"`
	RecordedAt    time.Time        `gorm:"column:recorded_at;autoCreateTime"`
}

func (AuditEntry) TableName() string {
	return "transaction_audit"
}
