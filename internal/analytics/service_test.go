package analytics_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/analytics"
	"github.com/finledger/ledger-engine/internal/category"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
)

// Mock repository serving canned categories and transactions
type mockAnalyticsRepository struct {
	categories   []*categoryDatamodel.Category
	transactions []*transactionDatamodel.Transaction
	getError     error
}

func (m *mockAnalyticsRepository) TransactionsInRange(userID int64, start, endExclusive time.Time) ([]*transactionDatamodel.Transaction, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	result := make([]*transactionDatamodel.Transaction, 0)
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if t.OccurredAt.Before(start) || !t.OccurredAt.Before(endExclusive) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockAnalyticsRepository) SumByCategory(userID int64, transactionType string) ([]analytics.CategorySum, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	sums := make(map[int64]*analytics.CategorySum)
	for _, t := range m.transactions {
		if t.UserID != userID || t.TransactionType != transactionType {
			continue
		}
		sum, ok := sums[t.CategoryID]
		if !ok {
			sum = &analytics.CategorySum{CategoryID: t.CategoryID, Total: decimal.Zero}
			sums[t.CategoryID] = sum
		}
		sum.Total = sum.Total.Add(t.Amount)
		sum.TransactionCount++
	}
	result := make([]analytics.CategorySum, 0, len(sums))
	for _, s := range sums {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockAnalyticsRepository) CategoriesByUser(userID int64) ([]*categoryDatamodel.Category, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	result := make([]*categoryDatamodel.Category, 0)
	for _, c := range m.categories {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

type mockUserDirectory struct {
	existing map[int64]bool
	err      error
}

func (m *mockUserDirectory) Exists(id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[id], nil
}

var _ = Describe("AnalyticsService", func() {
	var (
		service   *analytics.Service
		mockRepo  *mockAnalyticsRepository
		mockUsers *mockUserDirectory
		logger    *slog.Logger
	)

	const userID = int64(1)

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	addCategory := func(id int64, name, categoryType string) {
		mockRepo.categories = append(mockRepo.categories, &categoryDatamodel.Category{
			ID:           id,
			UserID:       userID,
			Name:         name,
			CategoryType: categoryType,
			IsActive:     true,
		})
	}

	addTransaction := func(categoryID int64, amount, txnType string, occurredAt time.Time) {
		mockRepo.transactions = append(mockRepo.transactions, &transactionDatamodel.Transaction{
			UserID:          userID,
			CategoryID:      categoryID,
			Amount:          decimal.RequireFromString(amount),
			TransactionType: txnType,
			OccurredAt:      occurredAt,
		})
	}

	BeforeEach(func() {
		mockRepo = &mockAnalyticsRepository{}
		mockUsers = &mockUserDirectory{existing: map[int64]bool{userID: true}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = analytics.NewService(mockRepo, mockUsers, logger)
	})

	Describe("MonthlySummary", func() {
		It("should total income and expense for the month", func() {
			addTransaction(10, "5000.00", "income", date(2024, 3, 1))
			addTransaction(20, "1500.00", "expense", date(2024, 3, 5))
			addTransaction(30, "2000.00", "expense", date(2024, 3, 20))

			summary, err := service.MonthlySummary(userID, 2024, time.March)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.TotalIncome.Equal(decimal.RequireFromString("5000.00"))).To(BeTrue())
			Expect(summary.TotalExpense.Equal(decimal.RequireFromString("3500.00"))).To(BeTrue())
			Expect(summary.NetBalance.Equal(decimal.RequireFromString("1500.00"))).To(BeTrue())
			Expect(summary.DistinctIncomeCategories).To(Equal(1))
			Expect(summary.DistinctExpenseCategories).To(Equal(2))
		})

		It("should exclude transactions outside the month", func() {
			addTransaction(10, "5000.00", "income", date(2024, 2, 29))
			addTransaction(10, "6000.00", "income", date(2024, 4, 1))
			addTransaction(10, "100.00", "income", date(2024, 3, 31))

			summary, err := service.MonthlySummary(userID, 2024, time.March)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.TotalIncome.Equal(decimal.RequireFromString("100.00"))).To(BeTrue())
		})

		It("should count a category once no matter how many transactions it has", func() {
			addTransaction(20, "10.00", "expense", date(2024, 3, 1))
			addTransaction(20, "20.00", "expense", date(2024, 3, 2))

			summary, err := service.MonthlySummary(userID, 2024, time.March)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.DistinctExpenseCategories).To(Equal(1))
		})

		It("should return a zero summary for a month without activity", func() {
			summary, err := service.MonthlySummary(userID, 2024, time.July)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.TotalIncome.IsZero()).To(BeTrue())
			Expect(summary.TotalExpense.IsZero()).To(BeTrue())
			Expect(summary.NetBalance.IsZero()).To(BeTrue())
			Expect(summary.DistinctIncomeCategories).To(BeZero())
		})

		It("should allow a negative net balance", func() {
			addTransaction(10, "100.00", "income", date(2024, 3, 1))
			addTransaction(20, "300.00", "expense", date(2024, 3, 2))

			summary, err := service.MonthlySummary(userID, 2024, time.March)

			Expect(err).ToNot(HaveOccurred())
			Expect(summary.NetBalance.Equal(decimal.RequireFromString("-200.00"))).To(BeTrue())
		})

		It("should reject an out-of-range month", func() {
			_, err := service.MonthlySummary(userID, 2024, time.Month(13))

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CategoryTotals", func() {
		BeforeEach(func() {
			addCategory(10, "Salary", "income")
			addCategory(20, "Rent", "expense")
			addCategory(30, "Groceries", "expense")
			addTransaction(10, "5000.00", "income", date(2024, 3, 1))
			addTransaction(20, "1500.00", "expense", date(2024, 3, 5))
			addTransaction(20, "1500.00", "expense", date(2024, 4, 5))
		})

		It("should include zero-valued categories", func() {
			totals, err := service.CategoryTotals(userID, date(2024, 3, 1), date(2024, 3, 31), analytics.FilterBoth)

			Expect(err).ToNot(HaveOccurred())
			Expect(totals).To(HaveLen(3))

			byName := map[string]analytics.CategoryTotal{}
			for _, t := range totals {
				byName[t.CategoryName] = t
			}
			Expect(byName["Groceries"].TotalAmount.IsZero()).To(BeTrue())
			Expect(byName["Groceries"].TransactionCount).To(BeZero())
			Expect(byName["Rent"].TotalAmount.Equal(decimal.RequireFromString("1500.00"))).To(BeTrue())
			Expect(byName["Rent"].TransactionCount).To(Equal(int64(1)))
		})

		It("should order income before expense, then by descending total", func() {
			totals, err := service.CategoryTotals(userID, date(2024, 3, 1), date(2024, 3, 31), analytics.FilterBoth)

			Expect(err).ToNot(HaveOccurred())
			Expect(totals[0].CategoryName).To(Equal("Salary"))
			Expect(totals[1].CategoryName).To(Equal("Rent"))
			Expect(totals[2].CategoryName).To(Equal("Groceries"))
		})

		It("should restrict to the requested type", func() {
			totals, err := service.CategoryTotals(userID, date(2024, 3, 1), date(2024, 3, 31), analytics.FilterExpense)

			Expect(err).ToNot(HaveOccurred())
			Expect(totals).To(HaveLen(2))
			for _, t := range totals {
				Expect(t.Type).To(Equal(category.TypeExpense))
			}
		})

		It("should treat the range as inclusive on both ends", func() {
			totals, err := service.CategoryTotals(userID, date(2024, 3, 5), date(2024, 3, 5), analytics.FilterExpense)

			Expect(err).ToNot(HaveOccurred())
			byName := map[string]analytics.CategoryTotal{}
			for _, t := range totals {
				byName[t.CategoryName] = t
			}
			Expect(byName["Rent"].TransactionCount).To(Equal(int64(1)))
		})

		It("should reject an inverted range", func() {
			_, err := service.CategoryTotals(userID, date(2024, 3, 31), date(2024, 3, 1), analytics.FilterBoth)

			Expect(err).To(MatchError(internal.ErrInvalidRange))
		})

		It("should reject an unknown filter", func() {
			_, err := service.CategoryTotals(userID, date(2024, 3, 1), date(2024, 3, 31), analytics.TypeFilter("transfer"))

			Expect(err).To(MatchError(internal.ErrInvalidType))
		})

		It("should reject an unknown user", func() {
			_, err := service.CategoryTotals(99, date(2024, 3, 1), date(2024, 3, 31), analytics.FilterBoth)

			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("BalanceOverTime", func() {
		It("should produce a dense daily series with zero-valued gaps", func() {
			addTransaction(10, "100.00", "income", date(2024, 3, 1))
			addTransaction(20, "40.00", "expense", date(2024, 3, 3))

			points, err := service.BalanceOverTime(userID, analytics.GranularityDaily, date(2024, 3, 1), date(2024, 3, 4))

			Expect(err).ToNot(HaveOccurred())
			Expect(points).To(HaveLen(4))

			Expect(points[0].Period).To(Equal("2024-03-01"))
			Expect(points[0].Income.Equal(decimal.RequireFromString("100.00"))).To(BeTrue())
			Expect(points[0].NetBalance.Equal(decimal.RequireFromString("100.00"))).To(BeTrue())

			Expect(points[1].Income.IsZero()).To(BeTrue())
			Expect(points[1].Expense.IsZero()).To(BeTrue())
			Expect(points[1].NetBalance.IsZero()).To(BeTrue())

			Expect(points[2].Expense.Equal(decimal.RequireFromString("40.00"))).To(BeTrue())
			Expect(points[2].NetBalance.Equal(decimal.RequireFromString("-40.00"))).To(BeTrue())

			Expect(points[3].Income.IsZero()).To(BeTrue())
		})

		It("should group a weekly series by ISO week", func() {
			// 2024-03-01 is Friday (week 9), 2024-03-04 Monday (week 10)
			addTransaction(10, "100.00", "income", date(2024, 3, 1))
			addTransaction(10, "200.00", "income", date(2024, 3, 4))

			points, err := service.BalanceOverTime(userID, analytics.GranularityWeekly, date(2024, 3, 1), date(2024, 3, 4))

			Expect(err).ToNot(HaveOccurred())
			Expect(points).To(HaveLen(2))
			Expect(points[0].Period).To(Equal("2024-W09"))
			Expect(points[0].Income.Equal(decimal.RequireFromString("100.00"))).To(BeTrue())
			Expect(points[1].Period).To(Equal("2024-W10"))
			Expect(points[1].Income.Equal(decimal.RequireFromString("200.00"))).To(BeTrue())
		})

		It("should group a monthly series by calendar month", func() {
			addTransaction(10, "100.00", "income", date(2024, 1, 31))
			addTransaction(20, "70.00", "expense", date(2024, 2, 1))

			points, err := service.BalanceOverTime(userID, analytics.GranularityMonthly, date(2024, 1, 15), date(2024, 2, 15))

			Expect(err).ToNot(HaveOccurred())
			Expect(points).To(HaveLen(2))
			Expect(points[0].Period).To(Equal("2024-01"))
			Expect(points[0].Income.Equal(decimal.RequireFromString("100.00"))).To(BeTrue())
			Expect(points[1].Period).To(Equal("2024-02"))
			Expect(points[1].Expense.Equal(decimal.RequireFromString("70.00"))).To(BeTrue())
		})

		It("should reject an unknown granularity", func() {
			_, err := service.BalanceOverTime(userID, analytics.Granularity("hourly"), date(2024, 3, 1), date(2024, 3, 4))

			Expect(err).To(HaveOccurred())
		})

		It("should reject an inverted range", func() {
			_, err := service.BalanceOverTime(userID, analytics.GranularityDaily, date(2024, 3, 4), date(2024, 3, 1))

			Expect(err).To(MatchError(internal.ErrInvalidRange))
		})

		It("should reject an unknown user", func() {
			_, err := service.BalanceOverTime(99, analytics.GranularityDaily, date(2024, 3, 1), date(2024, 3, 4))

			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("TopCategories", func() {
		BeforeEach(func() {
			addCategory(20, "Rent", "expense")
			addCategory(30, "Groceries", "expense")
			addCategory(40, "Transport", "expense")
			addCategory(50, "Hobbies", "expense")
		})

		It("should rank by descending total", func() {
			addTransaction(20, "1500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "400.00", "expense", date(2024, 3, 1))
			addTransaction(40, "100.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(HaveLen(3))
			Expect(ranked[0].CategoryName).To(Equal("Rent"))
			Expect(ranked[0].Rank).To(Equal(1))
			Expect(ranked[1].CategoryName).To(Equal("Groceries"))
			Expect(ranked[1].Rank).To(Equal(2))
			Expect(ranked[2].CategoryName).To(Equal("Transport"))
			Expect(ranked[2].Rank).To(Equal(3))
		})

		It("should give tied totals the same rank and skip the next", func() {
			addTransaction(20, "500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "500.00", "expense", date(2024, 3, 1))
			addTransaction(40, "100.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(HaveLen(3))
			Expect(ranked[0].Rank).To(Equal(1))
			Expect(ranked[1].Rank).To(Equal(1))
			Expect(ranked[2].Rank).To(Equal(3))
		})

		It("should keep every row tied at the cutoff even past the limit", func() {
			addTransaction(20, "500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "500.00", "expense", date(2024, 3, 1))
			addTransaction(40, "100.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(HaveLen(2))
			Expect(ranked[0].Rank).To(Equal(1))
			Expect(ranked[1].Rank).To(Equal(1))
		})

		It("should drop rows whose rank exceeds the limit", func() {
			addTransaction(20, "500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "400.00", "expense", date(2024, 3, 1))
			addTransaction(40, "300.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(HaveLen(2))
		})

		It("should fall back to the default limit when given zero", func() {
			addTransaction(20, "500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "400.00", "expense", date(2024, 3, 1))
			addTransaction(40, "300.00", "expense", date(2024, 3, 1))
			addTransaction(50, "200.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(HaveLen(analytics.DefaultTopLimit))
		})

		It("should break ties in the ordering by name", func() {
			addTransaction(40, "500.00", "expense", date(2024, 3, 1))
			addTransaction(30, "500.00", "expense", date(2024, 3, 1))

			ranked, err := service.TopCategories(userID, category.TypeExpense, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked[0].CategoryName).To(Equal("Groceries"))
			Expect(ranked[1].CategoryName).To(Equal("Transport"))
		})

		It("should return an empty ranking for a user with no transactions", func() {
			ranked, err := service.TopCategories(userID, category.TypeExpense, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(ranked).To(BeEmpty())
		})

		It("should reject an unknown type", func() {
			_, err := service.TopCategories(userID, category.FlowType("transfer"), 3)

			Expect(err).To(MatchError(internal.ErrInvalidType))
		})
	})

	Describe("repository failures", func() {
		It("should surface storage errors", func() {
			mockRepo.getError = errors.New("database error")

			_, err := service.MonthlySummary(userID, 2024, time.March)

			Expect(err).To(HaveOccurred())
		})
	})
})
