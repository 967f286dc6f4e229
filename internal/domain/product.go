package domain

import "time"

// UnknownProductName is shown for sales and purchases whose product row no
// longer exists.
const UnknownProductName = "Unknown Product"

// Product represents an inventory item
type Product struct {
	ProductID     string   `json:"productId" db:"product_id"`
	Name          string   `json:"name" db:"name"`
	Price         float64  `json:"price" db:"price"`
	Rating        *float64 `json:"rating,omitempty" db:"rating"`
	StockQuantity int      `json:"stockQuantity" db:"stock_quantity"`
}

// Sale records units of a product sold at a location
type Sale struct {
	SaleID      string    `json:"saleId" db:"sale_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	Timestamp   time.Time `json:"timestamp" db:"occurred_at"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unitPrice" db:"unit_price"`
	TotalAmount float64   `json:"totalAmount" db:"total_amount"`
	Location    string    `json:"location" db:"location"`
	Product     *Product  `json:"product"`
}

// ProductName returns the referenced product's name, or UnknownProductName
// when the product is gone.
func (s *Sale) ProductName() string {
	if s.Product == nil {
		return UnknownProductName
	}
	return s.Product.Name
}

// Purchase records units of a product bought in at a location
type Purchase struct {
	PurchaseID string    `json:"purchaseId" db:"purchase_id"`
	ProductID  string    `json:"productId" db:"product_id"`
	Timestamp  time.Time `json:"timestamp" db:"occurred_at"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitCost   float64   `json:"unitCost" db:"unit_cost"`
	TotalCost  float64   `json:"totalCost" db:"total_cost"`
	Location   string    `json:"location" db:"location"`
	Product    *Product  `json:"product"`
}

// ProductName returns the referenced product's name, or UnknownProductName
// when the product is gone.
func (p *Purchase) ProductName() string {
	if p.Product == nil {
		return UnknownProductName
	}
	return p.Product.Name
}

// User is a staff member
type User struct {
	UserID string `json:"userId" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
}
