package transport

import (
	"net/http"
	"time"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateSaleRequest represents a client-computed sale. Timestamp is ISO-8601;
// saleId and timestamp are filled in by the server when omitted.
type CreateSaleRequest struct {
	SaleID      string    `json:"saleId"`
	ProductID   string    `json:"productId" validate:"required"`
	Timestamp   time.Time `json:"timestamp"`
	Quantity    int       `json:"quantity" validate:"gte=0,lte=2147483647"`
	UnitPrice   float64   `json:"unitPrice" validate:"gte=0"`
	TotalAmount float64   `json:"totalAmount" validate:"gte=0"`
	Location    string    `json:"location" validate:"required"`
}

// CreatePurchaseRequest represents a client-computed purchase
type CreatePurchaseRequest struct {
	PurchaseID string    `json:"purchaseId"`
	ProductID  string    `json:"productId" validate:"required"`
	Timestamp  time.Time `json:"timestamp"`
	Quantity   int       `json:"quantity" validate:"gte=0,lte=2147483647"`
	UnitCost   float64   `json:"unitCost" validate:"gte=0"`
	TotalCost  float64   `json:"totalCost" validate:"gte=0"`
	Location   string    `json:"location" validate:"required"`
}

// SaleHandler handles HTTP requests for sales
type SaleHandler struct {
	saleService service.SaleService
	logger      *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{saleService: saleService, logger: logger}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Post("/", h.CreateSale)
	})
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err, "failed to retrieve sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// CreateSale handles POST /sales
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, h.logger, err, "invalid request body")
		return
	}

	sale, err := h.saleService.Create(r.Context(), service.CreateSaleInput{
		SaleID:      req.SaleID,
		ProductID:   req.ProductID,
		Timestamp:   req.Timestamp,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.TotalAmount,
		Location:    req.Location,
	})
	if err != nil {
		respondError(w, r, h.logger, err, "failed to create sale")
		return
	}

	h.logger.Info("Sale created", zap.String("sale_id", sale.SaleID), zap.String("product_id", sale.ProductID))
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// PurchaseHandler handles HTTP requests for purchases
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	logger          *zap.Logger
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, logger: logger}
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(r chi.Router) {
	r.Route("/purchases", func(r chi.Router) {
		r.Get("/", h.ListPurchases)
		r.Post("/", h.CreatePurchase)
	})
}

// ListPurchases handles GET /purchases
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchaseService.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err, "failed to retrieve purchases")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, purchases)
}

// CreatePurchase handles POST /purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, h.logger, err, "invalid request body")
		return
	}

	purchase, err := h.purchaseService.Create(r.Context(), service.CreatePurchaseInput{
		PurchaseID: req.PurchaseID,
		ProductID:  req.ProductID,
		Timestamp:  req.Timestamp,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		TotalCost:  req.TotalCost,
		Location:   req.Location,
	})
	if err != nil {
		respondError(w, r, h.logger, err, "failed to create purchase")
		return
	}

	h.logger.Info("Purchase created", zap.String("purchase_id", purchase.PurchaseID), zap.String("product_id", purchase.ProductID))
	middleware.RespondWithJSON(w, http.StatusCreated, purchase)
}
