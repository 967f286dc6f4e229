package repository

import (
	"context"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/jmoiron/sqlx"
)

var ErrPurchaseAlreadyExists = fmt.Errorf("purchase with this id %w", domain.ErrConflict)

// PurchaseRepository defines the interface for purchase data access
type PurchaseRepository interface {
	List(ctx context.Context) ([]*domain.Purchase, error)
	Create(ctx context.Context, purchase *domain.Purchase) error
}

type purchaseRepository struct {
	db *sqlx.DB
}

type purchaseRow struct {
	domain.Purchase
	joinedProduct
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// List returns every purchase with its product attached when it still exists
func (r *purchaseRepository) List(ctx context.Context) ([]*domain.Purchase, error) {
	query := `
		SELECT u.purchase_id, u.product_id, u.occurred_at, u.quantity, u.unit_cost, u.total_cost, u.location,` +
		joinedProductColumns + `
		FROM purchases u
		LEFT JOIN products p ON p.product_id = u.product_id
		ORDER BY u.occurred_at DESC, u.purchase_id ASC
	`

	rows := []purchaseRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list purchases", err)
	}

	purchases := make([]*domain.Purchase, 0, len(rows))
	for i := range rows {
		purchase := rows[i].Purchase
		purchase.Product = rows[i].joinedProduct.toDomain()
		purchases = append(purchases, &purchase)
	}

	return purchases, nil
}

// Create inserts the purchase exactly as given
func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (purchase_id, product_id, occurred_at, quantity, unit_cost, total_cost, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		purchase.PurchaseID,
		purchase.ProductID,
		purchase.Timestamp,
		purchase.Quantity,
		purchase.UnitCost,
		purchase.TotalCost,
		purchase.Location,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrPurchaseAlreadyExists
		}
		return storeError("create purchase", err)
	}

	return nil
}
