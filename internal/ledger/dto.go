package ledger

import (
	"time"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/category"
	"github.com/shopspring/decimal"
)

// CreateTransactionDTO represents the request payload for recording a
// transaction.
type CreateTransactionDTO struct {
	CategoryID  int64           `json:"category_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	OccurredAt  time.Time       `json:"occurred_at" validate:"required"`
	Description string          `json:"description,omitempty"`
}

func (dto CreateTransactionDTO) Validate() error {
	if dto.Amount.LessThanOrEqual(decimal.Zero) {
		return internal.ErrInvalidAmount
	}
	if !category.FlowType(dto.Type).IsValid() {
		return internal.ErrInvalidType
	}
	if dto.CategoryID <= 0 {
		return internal.ErrCategoryNotFound
	}
	if dto.OccurredAt.IsZero() {
		return internal.NewValidationError("occurred_at is required", internal.ErrCodeInvalidDate)
	}
	if len(dto.Description) > 500 {
		return internal.NewValidationError("description must be less than 500 characters", internal.ErrCodeInvalidDescription)
	}
	return nil
}

// UpdateTransactionDTO carries a partial update; nil fields keep their
// current value. Type is immutable after creation.
type UpdateTransactionDTO struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	CategoryID *int64           `json:"category_id,omitempty"`
}

func (dto UpdateTransactionDTO) Validate() error {
	if dto.Amount == nil && dto.CategoryID == nil {
		return internal.NewValidationError("at least one of amount or category_id is required", internal.ErrCodeInvalidAmount)
	}
	if dto.Amount != nil && dto.Amount.LessThanOrEqual(decimal.Zero) {
		return internal.ErrInvalidAmount
	}
	if dto.CategoryID != nil && *dto.CategoryID <= 0 {
		return internal.ErrCategoryNotFound
	}
	return nil
}

// Changes is the validated shape handed to the repository's atomic
// update-with-audit unit.
type Changes struct {
	Amount     *decimal.Decimal
	CategoryID *int64
}

func (c Changes) IsEmpty() bool {
	return c.Amount == nil && c.CategoryID == nil
}
