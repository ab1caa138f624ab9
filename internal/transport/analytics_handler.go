package transport

import (
	"net/http"
	"time"

	"mon-pannier/internal/analytics"
	"mon-pannier/internal/middleware"
	"mon-pannier/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AnalyticsHandler serves the period-filtered breakdowns. The purchase
// list is fetched once per request and every breakdown is derived from
// that single in-memory list, so the report is internally consistent.
type AnalyticsHandler struct {
	purchaseService service.PurchaseService
	logger          *zap.Logger
	now             func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(purchaseService service.PurchaseService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		purchaseService: purchaseService,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterRoutes registers the analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/analytics/report", h.Report)
}

// Report computes every breakdown for the requested period. A fetch
// failure degrades to an empty report rather than failing the view.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	period, ok := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid period: must be one of all, 7, 30, month, year")
		return
	}

	purchases, err := h.purchaseService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch purchases for analytics, serving empty report", zap.Error(err))
		purchases = nil
	}

	report := analytics.BuildReport(purchases, period, h.now())
	middleware.RespondWithJSON(w, http.StatusOK, report)
}
