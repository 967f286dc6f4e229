package service

import (
	"context"
	"fmt"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// CreateProductInput carries the client-supplied product fields
type CreateProductInput struct {
	ProductID     string
	Name          string
	Price         float64
	Rating        *float64
	StockQuantity int
}

// ProductService defines the product lifecycle operations
type ProductService interface {
	List(ctx context.Context, search string) ([]*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error)
	Delete(ctx context.Context, productID string) (*repository.DeleteResult, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List returns products whose name contains search, ignoring case
func (s *productService) List(ctx context.Context, search string) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, search)
}

// Create validates and inserts a product under its client-supplied id
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	var check fieldChecker
	check.required("productId", input.ProductID)
	check.required("name", input.Name)
	check.nonNegative("price", input.Price)
	check.count("stockQuantity", input.StockQuantity)
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		check.add("rating", "Value must be between 0 and 5")
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ProductID:     input.ProductID,
		Name:          input.Name,
		Price:         input.Price,
		Rating:        input.Rating,
		StockQuantity: input.StockQuantity,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateStockQuantity overwrites the stock quantity; other fields are untouched
func (s *productService) UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error) {
	var check fieldChecker
	check.required("productId", productID)
	check.count("stockQuantity", stockQuantity)
	if err := check.err(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.UpdateStockQuantity(ctx, productID, stockQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock quantity: %w", err)
	}

	return product, nil
}

// Delete removes a product together with its sales and purchases
func (s *productService) Delete(ctx context.Context, productID string) (*repository.DeleteResult, error) {
	if productID == "" {
		return nil, domain.NewValidationError("productId", "This field is required")
	}

	result, err := s.productRepo.Delete(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product %s: %w", productID, err)
	}

	return result, nil
}
