package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/jmoiron/sqlx"
)

var (
	ErrProductNotFound      = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrProductAlreadyExists = fmt.Errorf("product with this id %w", domain.ErrConflict)
)

// DeleteResult reports how many dependent rows a product delete removed
type DeleteResult struct {
	SalesDeleted     int64
	PurchasesDeleted int64
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context, search string) ([]*domain.Product, error)
	FindByID(ctx context.Context, productID string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error)
	Delete(ctx context.Context, productID string) (*DeleteResult, error)
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

// List returns products whose name contains search (case-insensitive), or all
// products when search is empty, ordered by name.
func (r *productRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	query := `
		SELECT product_id, name, price, rating, stock_quantity
		FROM products
		ORDER BY name ASC, product_id ASC
	`
	args := []interface{}{}

	if search != "" {
		query = `
		SELECT product_id, name, price, rating, stock_quantity
		FROM products
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY name ASC, product_id ASC
	`
		args = append(args, containsPattern(search))
	}

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, storeError("list products", err)
	}

	return products, nil
}

// FindByID retrieves a product by its identifier
func (r *productRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT product_id, name, price, rating, stock_quantity
		FROM products
		WHERE product_id = $1
	`

	product := &domain.Product{}
	if err := r.db.GetContext(ctx, product, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, storeError("find product by ID", err)
	}

	return product, nil
}

// Create inserts a new product using the client-supplied identifier
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (product_id, name, price, rating, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ProductID,
		product.Name,
		product.Price,
		product.Rating,
		product.StockQuantity,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return storeError("create product", err)
	}

	return nil
}

// UpdateStockQuantity overwrites only the stock quantity and returns the updated row
func (r *productRepository) UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock_quantity = $2
		WHERE product_id = $1
		RETURNING product_id, name, price, rating, stock_quantity
	`

	product := &domain.Product{}
	if err := r.db.GetContext(ctx, product, query, productID, stockQuantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, storeError("update stock quantity", err)
	}

	return product, nil
}

// Delete removes the product's sales, then its purchases, then the product
// itself inside one transaction. A missing product rolls everything back.
func (r *productRepository) Delete(ctx context.Context, productID string) (*DeleteResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeError("begin product delete", err)
	}
	// No-op once committed
	defer tx.Rollback()

	result := &DeleteResult{}

	res, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE product_id = $1`, productID)
	if err != nil {
		return nil, storeError("delete product sales", err)
	}
	if result.SalesDeleted, err = res.RowsAffected(); err != nil {
		return nil, storeError("get rows affected", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM purchases WHERE product_id = $1`, productID)
	if err != nil {
		return nil, storeError("delete product purchases", err)
	}
	if result.PurchasesDeleted, err = res.RowsAffected(); err != nil {
		return nil, storeError("get rows affected", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		return nil, storeError("delete product", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, storeError("get rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError("commit product delete", err)
	}

	return result, nil
}
