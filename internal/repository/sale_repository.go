package repository

import (
	"context"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/jmoiron/sqlx"
)

var ErrSaleAlreadyExists = fmt.Errorf("sale with this id %w", domain.ErrConflict)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	List(ctx context.Context) ([]*domain.Sale, error)
	Create(ctx context.Context, sale *domain.Sale) error
}

type saleRepository struct {
	db *sqlx.DB
}

type saleRow struct {
	domain.Sale
	joinedProduct
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sqlx.DB) SaleRepository {
	return &saleRepository{db: db}
}

// List returns every sale with its product attached, or a nil product when
// the referenced product does not exist
func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT s.sale_id, s.product_id, s.occurred_at, s.quantity, s.unit_price, s.total_amount, s.location,` +
		joinedProductColumns + `
		FROM sales s
		LEFT JOIN products p ON p.product_id = s.product_id
		ORDER BY s.occurred_at DESC, s.sale_id ASC
	`

	rows := []saleRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list sales", err)
	}

	sales := make([]*domain.Sale, 0, len(rows))
	for i := range rows {
		sale := rows[i].Sale
		sale.Product = rows[i].joinedProduct.toDomain()
		sales = append(sales, &sale)
	}

	return sales, nil
}

// Create inserts the sale exactly as given; totals are not recomputed here
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (sale_id, product_id, occurred_at, quantity, unit_price, total_amount, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sale.SaleID,
		sale.ProductID,
		sale.Timestamp,
		sale.Quantity,
		sale.UnitPrice,
		sale.TotalAmount,
		sale.Location,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSaleAlreadyExists
		}
		return storeError("create sale", err)
	}

	return nil
}
