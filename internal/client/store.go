package client

import (
	"context"
	"slices"

	"inventory-api/internal/domain"
)

// Store is the cached data layer: reads go through the Cache and writes
// invalidate the tags of every query they can change.
type Store struct {
	client *Client
	cache  *Cache
}

// NewStore creates a Store over client with an empty cache
func NewStore(client *Client) *Store {
	return &Store{client: client, cache: NewCache()}
}

// Cache exposes the underlying cache
func (s *Store) Cache() *Cache {
	return s.cache
}

func productsKey(search string) string {
	return "products?search=" + search
}

func (s *Store) Products(ctx context.Context, search string) ([]domain.Product, error) {
	products, err := Query(ctx, s.cache, productsKey(search), []Tag{TagProducts}, func(ctx context.Context) ([]domain.Product, error) {
		return s.client.ListProducts(ctx, search)
	})
	if err != nil {
		return nil, err
	}
	return cloneProducts(products), nil
}

func (s *Store) CreateProduct(ctx context.Context, p NewProduct) (*domain.Product, error) {
	return Mutate(ctx, s.cache, []Tag{TagProducts}, func(ctx context.Context) (*domain.Product, error) {
		return s.client.CreateProduct(ctx, p)
	})
}

// UpdateStockQuantity also invalidates sales and purchases, whose listings
// embed the product.
func (s *Store) UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error) {
	return Mutate(ctx, s.cache, []Tag{TagProducts, TagSales, TagPurchases}, func(ctx context.Context) (*domain.Product, error) {
		return s.client.UpdateStockQuantity(ctx, productID, stockQuantity)
	})
}

// DeleteProduct invalidates sales and purchases because the server removes
// the product's records with it.
func (s *Store) DeleteProduct(ctx context.Context, productID string) error {
	_, err := Mutate(ctx, s.cache, []Tag{TagProducts, TagSales, TagPurchases}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.DeleteProduct(ctx, productID)
	})
	return err
}

func (s *Store) Sales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := Query(ctx, s.cache, "sales", []Tag{TagSales}, s.client.ListSales)
	if err != nil {
		return nil, err
	}
	return cloneSales(sales), nil
}

func (s *Store) CreateSale(ctx context.Context, sale NewSale) (*domain.Sale, error) {
	return Mutate(ctx, s.cache, []Tag{TagSales}, func(ctx context.Context) (*domain.Sale, error) {
		return s.client.CreateSale(ctx, sale)
	})
}

func (s *Store) Purchases(ctx context.Context) ([]domain.Purchase, error) {
	purchases, err := Query(ctx, s.cache, "purchases", []Tag{TagPurchases}, s.client.ListPurchases)
	if err != nil {
		return nil, err
	}
	return clonePurchases(purchases), nil
}

func (s *Store) CreatePurchase(ctx context.Context, purchase NewPurchase) (*domain.Purchase, error) {
	return Mutate(ctx, s.cache, []Tag{TagPurchases}, func(ctx context.Context) (*domain.Purchase, error) {
		return s.client.CreatePurchase(ctx, purchase)
	})
}

func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	users, err := Query(ctx, s.cache, "users", []Tag{TagUsers}, s.client.ListUsers)
	if err != nil {
		return nil, err
	}
	return cloneUsers(users), nil
}

func (s *Store) CreateUser(ctx context.Context, user NewUser) (*domain.User, error) {
	return Mutate(ctx, s.cache, []Tag{TagUsers}, func(ctx context.Context) (*domain.User, error) {
		return s.client.CreateUser(ctx, user)
	})
}

// The clone helpers copy cached listings so callers can modify what they get
// back without touching the cache.

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	out := *p
	if p.Rating != nil {
		rating := *p.Rating
		out.Rating = &rating
	}
	return &out
}

func cloneProducts(in []domain.Product) []domain.Product {
	if in == nil {
		return nil
	}
	out := make([]domain.Product, len(in))
	for i := range in {
		out[i] = *cloneProduct(&in[i])
	}
	return out
}

func cloneSales(in []domain.Sale) []domain.Sale {
	if in == nil {
		return nil
	}
	out := make([]domain.Sale, len(in))
	for i, sale := range in {
		sale.Product = cloneProduct(sale.Product)
		out[i] = sale
	}
	return out
}

func clonePurchases(in []domain.Purchase) []domain.Purchase {
	if in == nil {
		return nil
	}
	out := make([]domain.Purchase, len(in))
	for i, purchase := range in {
		purchase.Product = cloneProduct(purchase.Product)
		out[i] = purchase
	}
	return out
}

func cloneUsers(in []domain.User) []domain.User {
	return slices.Clone(in)
}
