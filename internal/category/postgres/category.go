package postgres

import (
	"time"

	"github.com/finledger/ledger-engine/internal/category"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.Category) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) GetByID(userID, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByUser(userID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByNameAndType(userID int64, name, categoryType string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("user_id = ? AND name = ? AND category_type = ?", userID, name, categoryType).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) UpdateParent(userID, id int64, parentID *int64) error {
	return r.db.Model(&categoryDatamodel.Category{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"parent_category_id": parentID,
			"updated_at":         time.Now(),
		}).Error
}

func (r *CategoryRepository) Deactivate(userID, id int64) error {
	return r.db.Model(&categoryDatamodel.Category{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
}
