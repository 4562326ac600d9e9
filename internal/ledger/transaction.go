package ledger

import (
	"time"

	"github.com/finledger/ledger-engine/internal/category"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

// Transaction is a single ledger movement. Amount is always positive;
// direction is carried by Type alone.
type Transaction struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	CategoryID  int64             `json:"category_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        category.FlowType `json:"type"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:              t.ID,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		TransactionType: string(t.Type),
		OccurredAt:      t.OccurredAt,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Type:        category.FlowType(t.TransactionType),
		OccurredAt:  t.OccurredAt,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModelSlice(transactions []*transactionDatamodel.Transaction) []*Transaction {
	result := make([]*Transaction, len(transactions))
	for i, t := range transactions {
		result[i] = FromDataModel(t)
	}
	return result
}
