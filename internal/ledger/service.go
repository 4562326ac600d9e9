package ledger

import (
	"log/slog"
	"time"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/audit"
	"github.com/finledger/ledger-engine/internal/category"
	transactionDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/transaction"
)

// RepositoryAPI is the mutation and read surface of the transaction store.
// The *WithAudit methods commit the ledger change and exactly one audit
// entry in a single storage transaction; a failure rolls back both.
type RepositoryAPI interface {
	CreateWithAudit(txn *transactionDatamodel.Transaction, actor string) error
	UpdateWithAudit(userID, id int64, changes Changes, actor string) (*transactionDatamodel.Transaction, error)
	DeleteWithAudit(userID, id int64, actor string) (*transactionDatamodel.Transaction, error)
	GetByID(userID, id int64) (*transactionDatamodel.Transaction, error)
	ListByUser(userID int64, limit, offset int) ([]*transactionDatamodel.Transaction, error)
	TopForPeriod(userID int64, start, end time.Time, limit int) ([]*transactionDatamodel.Transaction, error)
}

// CategoryResolver is the slice of the category graph the ledger consults
// for type-consistency checks.
type CategoryResolver interface {
	ResolveType(userID, categoryID int64) (category.FlowType, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryResolver
	auditLog   audit.Reader
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryResolver, auditLog audit.Reader, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		auditLog:   auditLog,
		logger:     logger,
	}
}

// Create validates and records a transaction. The transaction's type must
// equal the type of its category at this instant; a validation failure
// leaves both the ledger and the audit trail untouched.
func (s *Service) Create(userID int64, dto CreateTransactionDTO, actor string) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	categoryType, err := s.categories.ResolveType(userID, dto.CategoryID)
	if err != nil {
		s.logger.Warn("category lookup failed", "error", err, "user_id", userID, "category_id", dto.CategoryID)
		return nil, err
	}
	if categoryType != category.FlowType(dto.Type) {
		s.logger.Warn("transaction type mismatch",
			"user_id", userID,
			"category_id", dto.CategoryID,
			"transaction_type", dto.Type,
			"category_type", categoryType)
		return nil, internal.ErrTypeMismatch
	}

	now := time.Now()
	txn := &transactionDatamodel.Transaction{
		UserID:          userID,
		CategoryID:      dto.CategoryID,
		Amount:          dto.Amount,
		TransactionType: dto.Type,
		OccurredAt:      dto.OccurredAt,
		Description:     dto.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateWithAudit(txn, actor); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", txn.ID,
		"user_id", userID,
		"category_id", txn.CategoryID,
		"amount", txn.Amount.String(),
		"type", txn.TransactionType)

	return FromDataModel(txn), nil
}

// Update applies a partial change to amount and/or category. A category
// change must point at a category carrying the transaction's own type.
func (s *Service) Update(userID, id int64, dto UpdateTransactionDTO, actor string) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction update validation failed", "error", err, "transaction_id", id)
		return nil, err
	}

	existing, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, internal.NewStorageError("failed to look up transaction", err)
	}
	if existing == nil {
		return nil, internal.ErrTransactionNotFound
	}

	if dto.CategoryID != nil {
		categoryType, err := s.categories.ResolveType(userID, *dto.CategoryID)
		if err != nil {
			s.logger.Warn("category lookup failed on update", "error", err, "category_id", *dto.CategoryID)
			return nil, err
		}
		if string(categoryType) != existing.TransactionType {
			s.logger.Warn("update type mismatch",
				"transaction_id", id,
				"new_category_id", *dto.CategoryID,
				"transaction_type", existing.TransactionType,
				"category_type", categoryType)
			return nil, internal.ErrTypeMismatch
		}
	}

	updated, err := s.repo.UpdateWithAudit(userID, id, Changes{Amount: dto.Amount, CategoryID: dto.CategoryID}, actor)
	if err != nil {
		s.logger.Error("failed to update transaction", "error", err, "transaction_id", id)
		return nil, internal.NewStorageError("failed to update transaction", err)
	}
	if updated == nil {
		return nil, internal.ErrTransactionNotFound
	}

	s.logger.Info("transaction updated",
		"transaction_id", id,
		"user_id", userID,
		"amount", updated.Amount.String())

	return FromDataModel(updated), nil
}

// Delete removes a transaction. The deleted-action audit entry is written
// in the same storage transaction as the row removal, so it survives its
// subject.
func (s *Service) Delete(userID, id int64, actor string) error {
	deleted, err := s.repo.DeleteWithAudit(userID, id, actor)
	if err != nil {
		s.logger.Error("failed to delete transaction", "error", err, "transaction_id", id)
		return internal.NewStorageError("failed to delete transaction", err)
	}
	if deleted == nil {
		return internal.ErrTransactionNotFound
	}

	s.logger.Info("transaction deleted",
		"transaction_id", id,
		"user_id", userID,
		"amount", deleted.Amount.String())

	return nil
}

func (s *Service) Get(userID, id int64) (*Transaction, error) {
	txn, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, internal.NewStorageError("failed to look up transaction", err)
	}
	if txn == nil {
		return nil, internal.ErrTransactionNotFound
	}
	return FromDataModel(txn), nil
}

func (s *Service) ListByUser(userID int64, limit, offset int) ([]*Transaction, error) {
	transactions, err := s.repo.ListByUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to list transactions", err)
	}
	return FromDataModelSlice(transactions), nil
}

// History returns the audit trail of one transaction, oldest entry first.
func (s *Service) History(userID, id int64) ([]*audit.Entry, error) {
	entries, err := s.auditLog.History(id)
	if err != nil {
		s.logger.Error("failed to read audit history", "error", err, "transaction_id", id)
		return nil, internal.NewStorageError("failed to read audit history", err)
	}

	owned := make([]*audit.Entry, 0, len(entries))
	for _, e := range audit.FromDataModelSlice(entries) {
		if e.UserID == userID {
			owned = append(owned, e)
		}
	}
	if len(owned) == 0 {
		return nil, internal.ErrTransactionNotFound
	}
	return owned, nil
}

// AuditTrail returns the user's audit entries across all transactions,
// newest first, including entries for transactions deleted since.
func (s *Service) AuditTrail(userID int64, limit, offset int) ([]*audit.Entry, error) {
	entries, err := s.auditLog.HistoryByUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to read audit trail", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("failed to read audit trail", err)
	}
	return audit.FromDataModelSlice(entries), nil
}
