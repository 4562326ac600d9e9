package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64           `gorm:"primaryKey"`
	UserID          int64           `gorm:"column:user_id;not null;index:idx_transactions_user_category_date,priority:1"`
	CategoryID      int64           `gorm:"column:category_id;not null;index:idx_transactions_user_category_date,priority:2"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	TransactionType string          `gorm:"column:transaction_type;not null"`
	OccurredAt      time.Time       `gorm:"column:occurred_at;type:date;not null;index:idx_transactions_user_category_date,priority:3"`
	Description     string          `gorm:"column:description"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
