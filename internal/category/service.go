package category

import (
	"log/slog"
	"sort"

	"github.com/finledger/ledger-engine/internal"
	categoryDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/category"
)

// maxHierarchyDepth bounds every parent-chain walk. The reparent check
// forbids new cycles, but a corrupt chain already in storage must not hang
// the walker.
const maxHierarchyDepth = 64

type RepositoryAPI interface {
	Create(cat *categoryDatamodel.Category) error
	GetByID(userID, id int64) (*categoryDatamodel.Category, error)
	GetByUser(userID int64) ([]*categoryDatamodel.Category, error)
	GetByNameAndType(userID int64, name, categoryType string) (*categoryDatamodel.Category, error)
	UpdateParent(userID, id int64, parentID *int64) error
	Deactivate(userID, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(userID int64, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("category validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	existing, err := s.repo.GetByNameAndType(userID, dto.Name, dto.Type)
	if err != nil {
		s.logger.Error("failed to check category name uniqueness", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to check category name", err)
	}
	if existing != nil {
		s.logger.Warn("duplicate category name", "user_id", userID, "name", dto.Name, "type", dto.Type)
		return nil, internal.ErrDuplicateCategoryName
	}

	if dto.ParentID != nil {
		parent, err := s.repo.GetByID(userID, *dto.ParentID)
		if err != nil {
			return nil, internal.NewStorageError("failed to look up parent category", err)
		}
		if parent == nil {
			s.logger.Warn("parent category not found", "user_id", userID, "parent_id", *dto.ParentID)
			return nil, internal.ErrCategoryNotFound
		}
	}

	cat := NewCategory(userID, dto.Name, FlowType(dto.Type), dto.ParentID)
	data := ToDataModel(cat)
	if err := s.repo.Create(data); err != nil {
		s.logger.Error("failed to create category", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to create category", err)
	}
	cat.ID = data.ID

	s.logger.Info("category created",
		"category_id", cat.ID,
		"user_id", userID,
		"name", cat.Name,
		"type", cat.Type)

	return cat, nil
}

// Reparent moves a category under newParentID, or to root level when
// newParentID is nil. A category may never become its own parent, and the
// new parent's ancestor chain must not pass through the category being
// moved.
func (s *Service) Reparent(userID, categoryID int64, newParentID *int64) error {
	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		return internal.NewStorageError("failed to look up category", err)
	}
	if cat == nil {
		s.logger.Warn("reparent: category not found", "user_id", userID, "category_id", categoryID)
		return internal.ErrCategoryNotFound
	}

	if newParentID != nil {
		if *newParentID == categoryID {
			s.logger.Warn("reparent rejected: self reference", "user_id", userID, "category_id", categoryID)
			return internal.ErrSelfParent
		}

		parent, err := s.repo.GetByID(userID, *newParentID)
		if err != nil {
			return internal.NewStorageError("failed to look up parent category", err)
		}
		if parent == nil {
			return internal.ErrCategoryNotFound
		}

		ancestors, err := s.ancestorChain(userID, parent)
		if err != nil {
			return err
		}
		for _, a := range ancestors {
			if a.ID == categoryID {
				s.logger.Warn("reparent rejected: cycle",
					"user_id", userID,
					"category_id", categoryID,
					"new_parent_id", *newParentID)
				return internal.ErrCycleDetected
			}
		}
	}

	if err := s.repo.UpdateParent(userID, categoryID, newParentID); err != nil {
		s.logger.Error("failed to reparent category", "error", err, "category_id", categoryID)
		return internal.NewStorageError("failed to reparent category", err)
	}

	s.logger.Info("category reparented", "category_id", categoryID, "user_id", userID)
	return nil
}

// ResolveType returns the flow type stored for the category. The ledger
// uses it to reject transactions whose type disagrees with their category.
func (s *Service) ResolveType(userID, categoryID int64) (FlowType, error) {
	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		return "", internal.NewStorageError("failed to look up category", err)
	}
	if cat == nil {
		return "", internal.ErrCategoryNotFound
	}
	return FlowType(cat.CategoryType), nil
}

// Ancestors walks parent links from the category to its root, nearest
// parent first. The category itself is not included.
func (s *Service) Ancestors(userID, categoryID int64) ([]*Category, error) {
	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		return nil, internal.NewStorageError("failed to look up category", err)
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}

	chain, err := s.ancestorChain(userID, cat)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(chain), nil
}

func (s *Service) ancestorChain(userID int64, from *categoryDatamodel.Category) ([]*categoryDatamodel.Category, error) {
	var chain []*categoryDatamodel.Category
	seen := map[int64]bool{from.ID: true}

	current := from
	for current.ParentCategoryID != nil {
		if len(chain) >= maxHierarchyDepth {
			s.logger.Error("category hierarchy exceeds maximum depth", "user_id", userID, "category_id", from.ID)
			return nil, internal.NewValidationError("category hierarchy exceeds maximum depth", internal.ErrCodeCycleDetected)
		}

		parent, err := s.repo.GetByID(userID, *current.ParentCategoryID)
		if err != nil {
			return nil, internal.NewStorageError("failed to walk category ancestors", err)
		}
		if parent == nil {
			// dangling parent link; the chain ends here
			break
		}
		if seen[parent.ID] {
			s.logger.Error("cycle found while walking ancestors", "user_id", userID, "category_id", parent.ID)
			return nil, internal.ErrCycleDetected
		}

		seen[parent.ID] = true
		chain = append(chain, parent)
		current = parent
	}

	return chain, nil
}

func (s *Service) Deactivate(userID, categoryID int64) error {
	cat, err := s.repo.GetByID(userID, categoryID)
	if err != nil {
		return internal.NewStorageError("failed to look up category", err)
	}
	if cat == nil {
		return internal.ErrCategoryNotFound
	}

	if err := s.repo.Deactivate(userID, categoryID); err != nil {
		s.logger.Error("failed to deactivate category", "error", err, "category_id", categoryID)
		return internal.NewStorageError("failed to deactivate category", err)
	}

	s.logger.Info("category deactivated", "category_id", categoryID, "user_id", userID)
	return nil
}

func (s *Service) GetAll(userID int64) ([]*Category, error) {
	data, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to get categories", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to get categories", err)
	}
	return FromDataModelSlice(data), nil
}

// HierarchyView returns one row per category owned by the user, paired with
// its resolved parent. Rows are ordered by category name, then id.
func (s *Service) HierarchyView(userID int64) ([]HierarchyRow, error) {
	data, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to get categories for hierarchy view", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to get categories", err)
	}

	byID := make(map[int64]*Category, len(data))
	categories := FromDataModelSlice(data)
	for _, c := range categories {
		byID[c.ID] = c
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})

	rows := make([]HierarchyRow, 0, len(categories))
	for _, c := range categories {
		row := HierarchyRow{Child: c.ToResponse()}
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				resp := parent.ToResponse()
				row.Parent = &resp
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
