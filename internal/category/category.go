package category

import (
	"time"

	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
)

// FlowType is the direction of money movement a category classifies. It is
// fixed when the category is created.
type FlowType string

const (
	TypeIncome  FlowType = "income"
	TypeExpense FlowType = "expense"
)

func (t FlowType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Type      FlowType  `json:"type"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

func NewCategory(userID int64, name string, flowType FlowType, parentID *int64) *Category {
	now := time.Now()
	return &Category{
		UserID:    userID,
		Name:      name,
		Type:      flowType,
		ParentID:  parentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:               c.ID,
		UserID:           c.UserID,
		Name:             c.Name,
		CategoryType:     string(c.Type),
		ParentCategoryID: c.ParentID,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      FlowType(c.CategoryType),
		ParentID:  c.ParentCategoryID,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModelSlice(categories []*categoryDatamodel.Category) []*Category {
	result := make([]*Category, len(categories))
	for i, c := range categories {
		result[i] = FromDataModel(c)
	}
	return result
}
