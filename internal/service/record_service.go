package service

import (
	"context"
	"fmt"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"

	"github.com/google/uuid"
)

// RecordOptions configures sale and purchase creation
type RecordOptions struct {
	// VerifyTotals rejects records whose total is not quantity * unit price.
	// When false the client-computed total is stored as sent.
	VerifyTotals bool

	// Now supplies timestamps for records created without one
	Now func() time.Time

	// NewID generates identifiers for records created without one
	NewID func() string
}

func (o RecordOptions) withDefaults() RecordOptions {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// CreateSaleInput carries a client-computed sale
type CreateSaleInput struct {
	SaleID      string
	ProductID   string
	Timestamp   time.Time
	Quantity    int
	UnitPrice   float64
	TotalAmount float64
	Location    string
}

// CreatePurchaseInput carries a client-computed purchase
type CreatePurchaseInput struct {
	PurchaseID string
	ProductID  string
	Timestamp  time.Time
	Quantity   int
	UnitCost   float64
	TotalCost  float64
	Location   string
}

// SaleService defines sale operations
type SaleService interface {
	List(ctx context.Context) ([]*domain.Sale, error)
	Create(ctx context.Context, input CreateSaleInput) (*domain.Sale, error)
}

// PurchaseService defines purchase operations
type PurchaseService interface {
	List(ctx context.Context) ([]*domain.Purchase, error)
	Create(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error)
}

type saleService struct {
	saleRepo repository.SaleRepository
	opts     RecordOptions
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	opts         RecordOptions
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(saleRepo repository.SaleRepository, opts RecordOptions) SaleService {
	return &saleService{saleRepo: saleRepo, opts: opts.withDefaults()}
}

// NewPurchaseService creates a new instance of PurchaseService
func NewPurchaseService(purchaseRepo repository.PurchaseRepository, opts RecordOptions) PurchaseService {
	return &purchaseService{purchaseRepo: purchaseRepo, opts: opts.withDefaults()}
}

func (s *saleService) List(ctx context.Context) ([]*domain.Sale, error) {
	return s.saleRepo.List(ctx)
}

// Create stores the sale. The product reference is not checked, so a sale for
// an unknown product is accepted and later listed without a product.
func (s *saleService) Create(ctx context.Context, input CreateSaleInput) (*domain.Sale, error) {
	var check fieldChecker
	check.required("productId", input.ProductID)
	check.required("location", input.Location)
	check.count("quantity", input.Quantity)
	check.nonNegative("unitPrice", input.UnitPrice)
	check.nonNegative("totalAmount", input.TotalAmount)
	if s.opts.VerifyTotals && !totalMatches(input.Quantity, input.UnitPrice, input.TotalAmount) {
		check.add("totalAmount", "Value must equal quantity * unitPrice")
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		SaleID:      input.SaleID,
		ProductID:   input.ProductID,
		Timestamp:   input.Timestamp,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalAmount: input.TotalAmount,
		Location:    input.Location,
	}
	if sale.SaleID == "" {
		sale.SaleID = s.opts.NewID()
	}
	if sale.Timestamp.IsZero() {
		sale.Timestamp = s.opts.Now()
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	return sale, nil
}

func (s *purchaseService) List(ctx context.Context) ([]*domain.Purchase, error) {
	return s.purchaseRepo.List(ctx)
}

// Create stores the purchase; see saleService.Create for the trust rules
func (s *purchaseService) Create(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error) {
	var check fieldChecker
	check.required("productId", input.ProductID)
	check.required("location", input.Location)
	check.count("quantity", input.Quantity)
	check.nonNegative("unitCost", input.UnitCost)
	check.nonNegative("totalCost", input.TotalCost)
	if s.opts.VerifyTotals && !totalMatches(input.Quantity, input.UnitCost, input.TotalCost) {
		check.add("totalCost", "Value must equal quantity * unitCost")
	}
	if err := check.err(); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		PurchaseID: input.PurchaseID,
		ProductID:  input.ProductID,
		Timestamp:  input.Timestamp,
		Quantity:   input.Quantity,
		UnitCost:   input.UnitCost,
		TotalCost:  input.TotalCost,
		Location:   input.Location,
	}
	if purchase.PurchaseID == "" {
		purchase.PurchaseID = s.opts.NewID()
	}
	if purchase.Timestamp.IsZero() {
		purchase.Timestamp = s.opts.Now()
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	return purchase, nil
}
