package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/finledger/ledger-engine/internal"
	"github.com/finledger/ledger-engine/internal/audit"
	"github.com/finledger/ledger-engine/internal/transport"
	"github.com/finledger/ledger-engine/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(userID int64, dto CreateTransactionDTO, actor string) (*Transaction, error)
	Update(userID, id int64, dto UpdateTransactionDTO, actor string) (*Transaction, error)
	Delete(userID, id int64, actor string) error
	Get(userID, id int64) (*Transaction, error)
	ListByUser(userID int64, limit, offset int) ([]*Transaction, error)
	History(userID, id int64) ([]*audit.Entry, error)
	AuditTrail(userID int64, limit, offset int) ([]*audit.Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	var dto CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.Service.Create(userID, dto, internal.ActorFromContext(r.Context()))
	if err != nil {
		h.Logger.Error("CreateTransaction: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, txn)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	id, ok := h.transactionIDParam(w, r)
	if !ok {
		return
	}

	var dto UpdateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.Service.Update(userID, id, dto, internal.ActorFromContext(r.Context()))
	if err != nil {
		h.Logger.Error("UpdateTransaction: service error", "error", err, "transaction_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	id, ok := h.transactionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(userID, id, internal.ActorFromContext(r.Context())); err != nil {
		h.Logger.Error("DeleteTransaction: service error", "error", err, "transaction_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	id, ok := h.transactionIDParam(w, r)
	if !ok {
		return
	}

	txn, err := h.Service.Get(userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, txn)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	limit, offset := pageParams(r)

	transactions, err := h.Service.ListByUser(userID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transactions)
}

func (h *Handler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	id, ok := h.transactionIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.History(userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// GetAuditTrail lists the user's audit entries across all transactions,
// including entries whose transaction has since been deleted.
func (h *Handler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	limit, offset := pageParams(r)

	entries, err := h.Service.AuditTrail(userID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}

func (h *Handler) transactionIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return 0, false
	}
	return id, true
}
