package postgres

import (
	"time"

	"github.com/finledger/ledger-engine/internal/analytics"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) analytics.RepositoryAPI {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) TransactionsInRange(userID int64, start, endExclusive time.Time) ([]*transactionDatamodel.Transaction, error) {
	var transactions []*transactionDatamodel.Transaction
	err := r.db.Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, start, endExclusive).
		Order("occurred_at ASC, id ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *AnalyticsRepository) SumByCategory(userID int64, transactionType string) ([]analytics.CategorySum, error) {
	var sums []analytics.CategorySum
	err := r.db.Model(&transactionDatamodel.Transaction{}).
		Select("category_id, SUM(amount) AS total, COUNT(*) AS transaction_count").
		Where("user_id = ? AND transaction_type = ?", userID, transactionType).
		Group("category_id").
		Scan(&sums).Error
	return sums, err
}

func (r *AnalyticsRepository) CategoriesByUser(userID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error
	return categories, err
}
