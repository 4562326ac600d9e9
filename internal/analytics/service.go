package analytics

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/category"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

// DefaultTopLimit is the rank cutoff used when the caller does not ask for
// a specific one.
const DefaultTopLimit = 3

type RepositoryAPI interface {
	// TransactionsInRange returns every transaction of the user whose
	// occurrence date falls in [start, endExclusive).
	TransactionsInRange(userID int64, start, endExclusive time.Time) ([]*transactionDatamodel.Transaction, error)
	SumByCategory(userID int64, transactionType string) ([]CategorySum, error)
	CategoriesByUser(userID int64) ([]*categoryDatamodel.Category, error)
}

// UserDirectory is the account collaborator's exists-and-active predicate.
type UserDirectory interface {
	Exists(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// MonthlySummary totals one calendar month. A month without activity is a
// zero summary, not an error.
func (s *Service) MonthlySummary(userID int64, year int, month time.Month) (*MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, internal.NewValidationError("month must be between 1 and 12", internal.ErrCodeInvalidDate)
	}

	start, end := MonthBounds(year, month)
	transactions, err := s.repo.TransactionsInRange(userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("failed to load transactions for monthly summary", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to load transactions", err)
	}

	summary := &MonthlySummary{
		Year:         year,
		Month:        month,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	incomeCategories := map[int64]bool{}
	expenseCategories := map[int64]bool{}
	for _, t := range transactions {
		switch category.FlowType(t.TransactionType) {
		case category.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			incomeCategories[t.CategoryID] = true
		case category.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
			expenseCategories[t.CategoryID] = true
		}
	}

	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.DistinctIncomeCategories = len(incomeCategories)
	summary.DistinctExpenseCategories = len(expenseCategories)

	return summary, nil
}

// CategoryTotals lists every category of the user admitted by the filter,
// with its total and count over [start, end]. Inactive categories appear
// zero-valued; ordering is income before expense, then descending total,
// then name.
func (s *Service) CategoryTotals(userID int64, start, end time.Time, filter TypeFilter) ([]CategoryTotal, error) {
	if !filter.IsValid() {
		return nil, internal.ErrInvalidType
	}
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}
	if DayOf(start).After(DayOf(end)) {
		return nil, internal.ErrInvalidRange
	}

	categories, err := s.repo.CategoriesByUser(userID)
	if err != nil {
		return nil, internal.NewStorageError("failed to load categories", err)
	}
	transactions, err := s.repo.TransactionsInRange(userID, DayOf(start), DayOf(end).AddDate(0, 0, 1))
	if err != nil {
		return nil, internal.NewStorageError("failed to load transactions", err)
	}

	totals := make(map[int64]*CategoryTotal, len(categories))
	var results []CategoryTotal
	for _, c := range categories {
		flowType := category.FlowType(c.CategoryType)
		if !filter.Matches(flowType) {
			continue
		}
		totals[c.ID] = &CategoryTotal{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Type:         flowType,
			TotalAmount:  decimal.Zero,
		}
	}

	for _, t := range transactions {
		if entry, ok := totals[t.CategoryID]; ok {
			entry.TotalAmount = entry.TotalAmount.Add(t.Amount)
			entry.TransactionCount++
		}
	}

	for _, entry := range totals {
		results = append(results, *entry)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Type != results[j].Type {
			return results[i].Type == category.TypeIncome
		}
		if cmp := results[i].TotalAmount.Cmp(results[j].TotalAmount); cmp != 0 {
			return cmp > 0
		}
		if results[i].CategoryName != results[j].CategoryName {
			return results[i].CategoryName < results[j].CategoryName
		}
		return results[i].CategoryID < results[j].CategoryID
	})

	return results, nil
}

// BalanceOverTime produces a dense series: one point per calendar bucket of
// the granularity intersecting [start, end], zero-valued where no
// transactions fall, in ascending order.
func (s *Service) BalanceOverTime(userID int64, g Granularity, start, end time.Time) ([]BalancePoint, error) {
	if !g.IsValid() {
		return nil, internal.NewValidationError("granularity must be daily, weekly or monthly", internal.ErrCodeInvalidGranule)
	}
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}
	if DayOf(start).After(DayOf(end)) {
		return nil, internal.ErrInvalidRange
	}

	buckets := Buckets(g, start, end)
	points := make([]BalancePoint, len(buckets))
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		points[i] = BalancePoint{
			Period:  b.Label,
			Start:   b.Start,
			End:     b.End,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		index[b.Label] = i
	}

	// load the whole bucket span so transactions on the edges of partial
	// first/last buckets are still counted
	transactions, err := s.repo.TransactionsInRange(userID, DayOf(start), DayOf(end).AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("failed to load transactions for balance series", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to load transactions", err)
	}

	for _, t := range transactions {
		i, ok := index[labelFor(g, t.OccurredAt)]
		if !ok {
			continue
		}
		switch category.FlowType(t.TransactionType) {
		case category.TypeIncome:
			points[i].Income = points[i].Income.Add(t.Amount)
		case category.TypeExpense:
			points[i].Expense = points[i].Expense.Add(t.Amount)
		}
	}

	for i := range points {
		points[i].NetBalance = points[i].Income.Sub(points[i].Expense)
	}

	return points, nil
}

func labelFor(g Granularity, t time.Time) string {
	d := DayOf(t)
	switch g {
	case GranularityDaily:
		return d.Format("2006-01-02")
	case GranularityWeekly:
		isoYear, isoWeek := mondayOf(d).ISOWeek()
		return fmt.Sprintf("%04d-W%02d", isoYear, isoWeek)
	case GranularityMonthly:
		return d.Format("2006-01")
	}
	return ""
}

// TopCategories ranks the user's categories of one type by all-time total,
// competition style. Rows with rank beyond the limit are dropped, but ties
// straddling the cutoff are all kept, so the result may exceed the limit.
func (s *Service) TopCategories(userID int64, flowType category.FlowType, limit int) ([]RankedCategory, error) {
	if !flowType.IsValid() {
		return nil, internal.ErrInvalidType
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	sums, err := s.repo.SumByCategory(userID, string(flowType))
	if err != nil {
		s.logger.Error("failed to sum categories", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to sum categories", err)
	}

	categories, err := s.repo.CategoriesByUser(userID)
	if err != nil {
		return nil, internal.NewStorageError("failed to load categories", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	sort.Slice(sums, func(i, j int) bool {
		if cmp := sums[i].Total.Cmp(sums[j].Total); cmp != 0 {
			return cmp > 0
		}
		return names[sums[i].CategoryID] < names[sums[j].CategoryID]
	})

	var ranked []RankedCategory
	rank := 0
	for i, sum := range sums {
		if i == 0 || sums[i-1].Total.Cmp(sum.Total) != 0 {
			rank = i + 1
		}
		if rank > limit {
			break
		}
		ranked = append(ranked, RankedCategory{
			CategoryID:   sum.CategoryID,
			CategoryName: names[sum.CategoryID],
			TotalAmount:  sum.Total,
			Rank:         rank,
		})
	}

	return ranked, nil
}

func (s *Service) checkUser(userID int64) error {
	exists, err := s.users.Exists(userID)
	if err != nil {
		return err
	}
	if !exists {
		s.logger.Warn("analytics query for unknown user", "user_id", userID)
		return internal.ErrUserNotFound
	}
	return nil
}
