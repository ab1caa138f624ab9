package transport

import (
	"net/http"
	"time"

	"mon-pannier/internal/middleware"
	"mon-pannier/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// purchaseDateLayout is the calendar-date wire format for purchase dates
const purchaseDateLayout = "2006-01-02"

// CreatePurchaseRequest represents the purchase creation payload
type CreatePurchaseRequest struct {
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	Price        float64 `json:"price" validate:"required"`
	PurchaseDate string  `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Notes        string  `json:"notes" validate:"omitempty,max=255"`
}

// UpdatePurchaseRequest represents a partial purchase update payload
type UpdatePurchaseRequest struct {
	ProductID    *string  `json:"product_id" validate:"omitempty,uuid"`
	Price        *float64 `json:"price"`
	PurchaseDate *string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string  `json:"notes" validate:"omitempty,max=255"`
}

// PurchaseHandler handles HTTP requests for purchase operations
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	logger          *zap.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// RegisterRoutes registers all purchase routes. The aggregate routes are
// static so chi matches them ahead of the {id} wildcard.
func (h *PurchaseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/purchases", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/top-product", h.TopProduct)
		r.Get("/financial-summary", h.FinancialSummary)
		r.Get("/{id}", h.GetByID)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles purchase creation
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Purchase creation validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	purchaseDate, err := time.ParseInLocation(purchaseDateLayout, req.PurchaseDate, time.Local)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase date")
		return
	}

	purchase, err := h.purchaseService.Create(r.Context(), service.CreatePurchaseInput{
		ProductID:    productID,
		Price:        req.Price,
		PurchaseDate: purchaseDate,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Purchase created",
		zap.String("purchase_id", purchase.ID.String()),
		zap.Float64("price", purchase.Price),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, purchase)
}

// List handles listing all purchases, most recent first
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchaseService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, purchases)
}

// TopProduct handles the top-product aggregate query. A store with no
// purchases yields 404, not a zero result.
func (h *PurchaseHandler) TopProduct(w http.ResponseWriter, r *http.Request) {
	top, err := h.purchaseService.TopProduct(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, top)
}

// FinancialSummary handles the financial summary aggregate query
func (h *PurchaseHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.purchaseService.FinancialSummary(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// GetByID handles fetching a single purchase
func (h *PurchaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, purchase)
}

// Update handles partial purchase updates
func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	var req UpdatePurchaseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Purchase update validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	productID, err := parseOptionalUUID(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var purchaseDate *time.Time
	if req.PurchaseDate != nil {
		parsed, err := time.ParseInLocation(purchaseDateLayout, *req.PurchaseDate, time.Local)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase date")
			return
		}
		purchaseDate = &parsed
	}

	purchase, err := h.purchaseService.Update(r.Context(), id, service.UpdatePurchaseInput{
		ProductID:    productID,
		Price:        req.Price,
		PurchaseDate: purchaseDate,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, purchase)
}

// Delete handles purchase deletion
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid purchase ID")
		return
	}

	if err := h.purchaseService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Purchase deleted", zap.String("purchase_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
