package report

import (
	"time"

	"github.com/finledger/ledger-engine/internal/analytics"
	"github.com/finledger/ledger-engine/internal/ledger"
	"github.com/finledger/ledger-engine/internal/user"
)

// TopTransactionsLimit caps the transaction highlight section of a monthly
// report.
const TopTransactionsLimit = 10

type MonthlyReport struct {
	GeneratedAt       time.Time                 `json:"generated_at"`
	Owner             user.User                 `json:"owner"`
	Header            analytics.MonthlySummary  `json:"header"`
	IncomeByCategory  []analytics.CategoryTotal `json:"income_by_category"`
	ExpenseByCategory []analytics.CategoryTotal `json:"expense_by_category"`
	TopTransactions   []*ledger.Transaction     `json:"top_transactions"`
}
