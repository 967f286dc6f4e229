package repository

import (
	"database/sql"

	"inventory-api/internal/domain"
)

// joinedProduct holds the LEFT JOINed product columns of a sale or purchase
// row. All fields are NULL when the referenced product does not exist.
type joinedProduct struct {
	ID            sql.NullString  `db:"p_product_id"`
	Name          sql.NullString  `db:"p_name"`
	Price         sql.NullFloat64 `db:"p_price"`
	Rating        sql.NullFloat64 `db:"p_rating"`
	StockQuantity sql.NullInt64   `db:"p_stock_quantity"`
}

const joinedProductColumns = `
		p.product_id AS p_product_id,
		p.name AS p_name,
		p.price AS p_price,
		p.rating AS p_rating,
		p.stock_quantity AS p_stock_quantity`

func (j joinedProduct) toDomain() *domain.Product {
	if !j.ID.Valid {
		return nil
	}

	product := &domain.Product{
		ProductID:     j.ID.String,
		Name:          j.Name.String,
		Price:         j.Price.Float64,
		StockQuantity: int(j.StockQuantity.Int64),
	}
	if j.Rating.Valid {
		rating := j.Rating.Float64
		product.Rating = &rating
	}
	return product
}
