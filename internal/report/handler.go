package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/finledger/ledger-engine/internal/transport"
	"github.com/finledger/ledger-engine/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	MonthlyReport(userID int64, year int, month time.Month) (*MonthlyReport, error)
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

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	rep, err := h.Service.MonthlyReport(userID, year, time.Month(month))
	if err != nil {
		h.Logger.Error("GetMonthlyReport: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}
