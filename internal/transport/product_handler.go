package transport

import (
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	ProductID     string   `json:"productId" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	StockQuantity int      `json:"stockQuantity" validate:"gte=0,lte=2147483647"`
}

// UpdateStockQuantityRequest represents the stock patch payload
type UpdateStockQuantityRequest struct {
	StockQuantity *int `json:"stockQuantity" validate:"required,gte=0,lte=2147483647"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Patch("/{productId}/stockQuantity", h.UpdateStockQuantity)
		r.Delete("/{productId}", h.DeleteProduct)
	})
}

// ListProducts handles GET /products?search=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, h.logger, err, "failed to retrieve products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, h.logger, err, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Price:         req.Price,
		Rating:        req.Rating,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		respondError(w, r, h.logger, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ProductID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateStockQuantity handles PATCH /products/{productId}/stockQuantity
func (h *ProductHandler) UpdateStockQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req UpdateStockQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, h.logger, err, "invalid request body")
		return
	}

	product, err := h.productService.UpdateStockQuantity(r.Context(), productID, *req.StockQuantity)
	if err != nil {
		respondError(w, r, h.logger, err, "failed to update stock quantity")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{productId}, cascading to its records
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	result, err := h.productService.Delete(r.Context(), productID)
	if err != nil {
		respondError(w, r, h.logger, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted",
		zap.String("product_id", productID),
		zap.Int64("sales_deleted", result.SalesDeleted),
		zap.Int64("purchases_deleted", result.PurchasesDeleted),
	)
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
