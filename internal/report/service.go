package report

import (
	"log/slog"
	"time"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/analytics"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"github.com/finledger/ledger-engine/internal/ledger"
	"github.com/finledger/ledger-engine/internal/user"
)

// Summarizer is the slice of the aggregation engine a report pulls from.
type Summarizer interface {
	MonthlySummary(userID int64, year int, month time.Month) (*analytics.MonthlySummary, error)
	CategoryTotals(userID int64, start, end time.Time, filter analytics.TypeFilter) ([]analytics.CategoryTotal, error)
}

type TransactionSource interface {
	TopForPeriod(userID int64, start, end time.Time, limit int) ([]*transactionDatamodel.Transaction, error)
}

// UserDirectory resolves the account a report is generated for; the ledger
// core never stores users itself.
type UserDirectory interface {
	Get(id int64) (*user.User, error)
}

type Service struct {
	summaries    Summarizer
	transactions TransactionSource
	users        UserDirectory
	logger       *slog.Logger
}

func NewService(summaries Summarizer, transactions TransactionSource, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		summaries:    summaries,
		transactions: transactions,
		users:        users,
		logger:       logger,
	}
}

// MonthlyReport assembles the header, per-type category breakdowns and the
// largest transactions of one calendar month into a single document.
func (s *Service) MonthlyReport(userID int64, year int, month time.Month) (*MonthlyReport, error) {
	owner, err := s.users.Get(userID)
	if err != nil {
		s.logger.Warn("monthly report for unresolvable user", "error", err, "user_id", userID)
		return nil, err
	}

	header, err := s.summaries.MonthlySummary(userID, year, month)
	if err != nil {
		s.logger.Error("failed to build report header", "error", err, "user_id", userID)
		return nil, err
	}

	start, end := analytics.MonthBounds(year, month)

	income, err := s.summaries.CategoryTotals(userID, start, end, analytics.FilterIncome)
	if err != nil {
		s.logger.Error("failed to build income breakdown", "error", err, "user_id", userID)
		return nil, err
	}
	expense, err := s.summaries.CategoryTotals(userID, start, end, analytics.FilterExpense)
	if err != nil {
		s.logger.Error("failed to build expense breakdown", "error", err, "user_id", userID)
		return nil, err
	}

	top, err := s.transactions.TopForPeriod(userID, start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), TopTransactionsLimit)
	if err != nil {
		s.logger.Error("failed to load top transactions", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to load top transactions", err)
	}

	s.logger.Info("monthly report generated",
		"user_id", userID,
		"year", year,
		"month", int(month),
		"top_transactions", len(top))

	return &MonthlyReport{
		GeneratedAt:       time.Now(),
		Owner:             *owner,
		Header:            *header,
		IncomeByCategory:  income,
		ExpenseByCategory: expense,
		TopTransactions:   ledger.FromDataModelSlice(top),
	}, nil
}
