package analytics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/finledger/ledger-engine/internal/category"
	"github.com/finledger/ledger-engine/internal/transport"
	"github.com/finledger/ledger-engine/pkg/logger"
	"github.com/go-chi/chi"
)

const dateLayout = "2006-01-02"

type ServiceAPI interface {
	MonthlySummary(userID int64, year int, month time.Month) (*MonthlySummary, error)
	CategoryTotals(userID int64, start, end time.Time, filter TypeFilter) ([]CategoryTotal, error)
	BalanceOverTime(userID int64, g Granularity, start, end time.Time) ([]BalancePoint, error)
	TopCategories(userID int64, flowType category.FlowType, limit int) ([]RankedCategory, error)
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

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	summary, err := h.Service.MonthlySummary(userID, year, time.Month(month))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	filter := TypeFilter(r.URL.Query().Get("type"))
	if filter == "" {
		filter = FilterBoth
	}

	totals, err := h.Service.CategoryTotals(userID, start, end, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}

func (h *Handler) GetBalanceOverTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}

	granularity := Granularity(r.URL.Query().Get("granularity"))
	if granularity == "" {
		granularity = GranularityDaily
	}

	points, err := h.Service.BalanceOverTime(userID, granularity, start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) GetTopCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	flowType := category.FlowType(r.URL.Query().Get("type"))

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = l
	}

	ranked, err := h.Service.TopCategories(userID, flowType, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ranked)
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}

func (h *Handler) rangeParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
