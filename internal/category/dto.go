package category

import (
	"github.com/finledger/ledger-engine/internal"
)

// CreateCategoryDTO represents the request payload for creating a category
type CreateCategoryDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Type     string `json:"type" validate:"required,oneof=income expense"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (dto CreateCategoryDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("category name is required", internal.ErrCodeInvalidName)
	}
	if len(dto.Name) > 100 {
		return internal.NewValidationError("category name must be at most 100 characters", internal.ErrCodeInvalidName)
	}
	if !FlowType(dto.Type).IsValid() {
		return internal.ErrInvalidType
	}
	return nil
}

// ReparentCategoryDTO represents the request for moving a category under a
// new parent; a nil parent makes it a root category.
type ReparentCategoryDTO struct {
	NewParentID *int64 `json:"new_parent_id,omitempty"`
}

type CategoryResponse struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Type     FlowType `json:"type"`
	ParentID *int64   `json:"parent_id,omitempty"`
	IsActive bool     `json:"is_active"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Type:     c.Type,
		ParentID: c.ParentID,
		IsActive: c.IsActive,
	}
}

// HierarchyRow pairs a category with its resolved parent; Parent is nil for
// root-level categories.
type HierarchyRow struct {
	Child  CategoryResponse  `json:"child"`
	Parent *CategoryResponse `json:"parent,omitempty"`
}
