package analytics

import (
	"time"

	"github.com/finledger/ledger-engine/internal/category"
	"github.com/shopspring/decimal"
)

type TypeFilter string

const (
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
	FilterBoth    TypeFilter = "both"
)

func (f TypeFilter) IsValid() bool {
	switch f {
	case FilterIncome, FilterExpense, FilterBoth:
		return true
	}
	return false
}

// Matches reports whether the filter admits the given flow type.
func (f TypeFilter) Matches(t category.FlowType) bool {
	switch f {
	case FilterBoth:
		return true
	case FilterIncome:
		return t == category.TypeIncome
	case FilterExpense:
		return t == category.TypeExpense
	}
	return false
}

type MonthlySummary struct {
	Year                      int             `json:"year"`
	Month                     time.Month      `json:"month"`
	TotalIncome               decimal.Decimal `json:"total_income"`
	TotalExpense              decimal.Decimal `json:"total_expense"`
	NetBalance                decimal.Decimal `json:"net_balance"`
	DistinctIncomeCategories  int             `json:"distinct_income_categories"`
	DistinctExpenseCategories int             `json:"distinct_expense_categories"`
}

// CategoryTotal lists one category's activity over a range. Categories with
// no matching transactions still appear, zero-valued.
type CategoryTotal struct {
	CategoryID       int64             `json:"category_id"`
	CategoryName     string            `json:"category_name"`
	Type             category.FlowType `json:"type"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	TransactionCount int64             `json:"transaction_count"`
}

// BalancePoint is one bucket of a balance-over-time series.
type BalancePoint struct {
	Period     string          `json:"period"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// RankedCategory carries a competition rank: tied totals share a rank and
// the next distinct total skips past them.
type RankedCategory struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Rank         int             `json:"rank"`
}

// CategorySum is the raw GROUP BY row the repository hands back for
// ranking queries.
type CategorySum struct {
	CategoryID       int64           `gorm:"column:category_id" json:"category_id"`
	Total            decimal.Decimal `gorm:"column:total" json:"total"`
	TransactionCount int64           `gorm:"column:transaction_count" json:"transaction_count"`
}
