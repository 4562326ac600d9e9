package user

import (
	"log/slog"

	"github.com/finledger/ledger-engine/internal"
	userDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

// Service answers the "does this user exist and is it active" question the
// read-side queries ask before touching any ledger data.
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

func (s *Service) Exists(id int64) (bool, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err, "user_id", id)
		return false, internal.NewStorageError("failed to look up user", err)
	}
	return u != nil && u.IsActive, nil
}

func (s *Service) Get(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewStorageError("failed to look up user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(u), nil
}
