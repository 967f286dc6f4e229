// Package memory provides map-backed repositories sharing one store. Handler
// and client tests run the full HTTP stack on top of it without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// Store holds every table behind a single lock so the product delete is atomic.
type Store struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	sales     []domain.Sale
	purchases []domain.Purchase
	users     []domain.User

	// FailDeleteAfterSales makes Delete fail after the sales step, leaving the
	// store as it was before the call.
	FailDeleteAfterSales error
}

func NewStore() *Store {
	return &Store{products: make(map[string]domain.Product)}
}

func (s *Store) Products() repository.ProductRepository   { return productRepo{s} }
func (s *Store) Sales() repository.SaleRepository         { return saleRepo{s} }
func (s *Store) Purchases() repository.PurchaseRepository { return purchaseRepo{s} }
func (s *Store) Users() repository.UserRepository         { return userRepo{s} }

type productRepo struct{ s *Store }

func (r productRepo) List(ctx context.Context, search string) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(search)
	out := []*domain.Product{}
	for _, p := range r.s.products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (r productRepo) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (r productRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ProductID]; ok {
		return repository.ErrProductAlreadyExists
	}
	r.s.products[product.ProductID] = *product
	return nil
}

func (r productRepo) UpdateStockQuantity(ctx context.Context, productID string, stockQuantity int) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	p.StockQuantity = stockQuantity
	r.s.products[productID] = p
	return &p, nil
}

func (r productRepo) Delete(ctx context.Context, productID string) (*repository.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sales := r.s.sales[:0:0]
	for _, sale := range r.s.sales {
		if sale.ProductID != productID {
			sales = append(sales, sale)
		}
	}
	if r.s.FailDeleteAfterSales != nil {
		return nil, r.s.FailDeleteAfterSales
	}

	purchases := r.s.purchases[:0:0]
	for _, purchase := range r.s.purchases {
		if purchase.ProductID != productID {
			purchases = append(purchases, purchase)
		}
	}

	if _, ok := r.s.products[productID]; !ok {
		return nil, repository.ErrProductNotFound
	}

	result := &repository.DeleteResult{
		SalesDeleted:     int64(len(r.s.sales) - len(sales)),
		PurchasesDeleted: int64(len(r.s.purchases) - len(purchases)),
	}
	r.s.sales = sales
	r.s.purchases = purchases
	delete(r.s.products, productID)
	return result, nil
}

// lookup resolves a product for a record listing; callers hold the lock.
func (s *Store) lookup(productID string) *domain.Product {
	p, ok := s.products[productID]
	if !ok {
		return nil
	}
	return &p
}

type saleRepo struct{ s *Store }

func (r saleRepo) List(ctx context.Context) ([]*domain.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		sale := sale
		sale.Product = r.s.lookup(sale.ProductID)
		out = append(out, &sale)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].SaleID < out[j].SaleID
	})
	return out, nil
}

func (r saleRepo) Create(ctx context.Context, sale *domain.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sales {
		if existing.SaleID == sale.SaleID {
			return repository.ErrSaleAlreadyExists
		}
	}
	stored := *sale
	stored.Product = nil
	r.s.sales = append(r.s.sales, stored)
	return nil
}

type purchaseRepo struct{ s *Store }

func (r purchaseRepo) List(ctx context.Context) ([]*domain.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Purchase, 0, len(r.s.purchases))
	for _, purchase := range r.s.purchases {
		purchase := purchase
		purchase.Product = r.s.lookup(purchase.ProductID)
		out = append(out, &purchase)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].PurchaseID < out[j].PurchaseID
	})
	return out, nil
}

func (r purchaseRepo) Create(ctx context.Context, purchase *domain.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.purchases {
		if existing.PurchaseID == purchase.PurchaseID {
			return repository.ErrPurchaseAlreadyExists
		}
	}
	stored := *purchase
	stored.Product = nil
	r.s.purchases = append(r.s.purchases, stored)
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.UserID == user.UserID {
			return repository.ErrUserAlreadyExists
		}
	}
	r.s.users = append(r.s.users, *user)
	return nil
}
