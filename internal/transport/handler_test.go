package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory-api/internal/domain"
	"inventory-api/internal/middleware"
	"inventory-api/internal/repository/memory"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func newTestRouter(store *memory.Store, opts service.RecordOptions) http.Handler {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Use(middleware.ErrorHandlingMiddleware(logger))

	NewProductHandler(service.NewProductService(store.Products()), logger).RegisterRoutes(r)
	NewSaleHandler(service.NewSaleService(store.Sales(), opts), logger).RegisterRoutes(r)
	NewPurchaseHandler(service.NewPurchaseService(store.Purchases(), opts), logger).RegisterRoutes(r)
	NewUserHandler(service.NewUserService(store.Users()), logger).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

var widget = map[string]interface{}{
	"productId": "p1", "name": "Widget", "price": 9.99, "stockQuantity": 5,
}

var widgetSale = map[string]interface{}{
	"saleId": "s1", "productId": "p1", "timestamp": "2024-05-01T10:30:00.000Z",
	"quantity": 2, "unitPrice": 9.99, "totalAmount": 19.98, "location": "store-1",
}

func TestSaleListEmbedsProduct(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})

	if w := do(t, h, http.MethodPost, "/products", widget); w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/sales", widgetSale); w.Code != http.StatusCreated {
		t.Fatalf("create sale: %d %s", w.Code, w.Body.String())
	}

	w := do(t, h, http.MethodGet, "/sales", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list sales: %d", w.Code)
	}
	var sales []domain.Sale
	decodeBody(t, w, &sales)
	if len(sales) != 1 || sales[0].SaleID != "s1" {
		t.Fatalf("unexpected sales %+v", sales)
	}
	if sales[0].ProductName() != "Widget" {
		t.Errorf("expected embedded product Widget, got %q", sales[0].ProductName())
	}
	if sales[0].TotalAmount != 19.98 || sales[0].Timestamp.Minute() != 30 {
		t.Errorf("sale fields not round-tripped: %+v", sales[0])
	}
}

func TestDeleteProductCascades(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})
	do(t, h, http.MethodPost, "/products", widget)
	do(t, h, http.MethodPost, "/sales", widgetSale)
	do(t, h, http.MethodPost, "/purchases", map[string]interface{}{
		"purchaseId": "u1", "productId": "p1", "quantity": 10, "unitCost": 4, "totalCost": 40, "location": "dock",
	})

	w := do(t, h, http.MethodDelete, "/products/p1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	var msg MessageResponse
	decodeBody(t, w, &msg)
	if msg.Message != "Product deleted successfully" {
		t.Errorf("unexpected message %q", msg.Message)
	}

	for _, path := range []string{"/sales", "/purchases", "/products"} {
		w := do(t, h, http.MethodGet, path, nil)
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("%s should be empty after cascade, got %s", path, w.Body.String())
		}
	}
}

func TestOrphanSaleHasNullProduct(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})
	orphan := map[string]interface{}{
		"saleId": "s2", "productId": "gone", "quantity": 1, "unitPrice": 1, "totalAmount": 1, "location": "store-1",
	}
	if w := do(t, h, http.MethodPost, "/sales", orphan); w.Code != http.StatusCreated {
		t.Fatalf("create orphan: %d %s", w.Code, w.Body.String())
	}

	w := do(t, h, http.MethodGet, "/sales", nil)
	var raw []map[string]interface{}
	decodeBody(t, w, &raw)
	if len(raw) != 1 {
		t.Fatalf("expected one sale, got %d", len(raw))
	}
	if product, ok := raw[0]["product"]; !ok || product != nil {
		t.Errorf("expected explicit null product, got %v", raw[0]["product"])
	}
}

func TestErrorStatusMapping(t *testing.T) {
	store := memory.NewStore()
	h := newTestRouter(store, service.RecordOptions{VerifyTotals: true})
	do(t, h, http.MethodPost, "/products", widget)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"duplicate product", http.MethodPost, "/products", widget, http.StatusConflict},
		{"negative price", http.MethodPost, "/products", map[string]interface{}{"productId": "p2", "name": "X", "price": -1, "stockQuantity": 0}, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/products", map[string]interface{}{"productId": "p2", "price": 1, "stockQuantity": 0}, http.StatusBadRequest},
		{"patch missing product", http.MethodPatch, "/products/nope/stockQuantity", map[string]interface{}{"stockQuantity": 3}, http.StatusNotFound},
		{"patch without quantity", http.MethodPatch, "/products/p1/stockQuantity", map[string]interface{}{}, http.StatusBadRequest},
		{"patch negative quantity", http.MethodPatch, "/products/p1/stockQuantity", map[string]interface{}{"stockQuantity": -1}, http.StatusBadRequest},
		{"patch oversized quantity", http.MethodPatch, "/products/p1/stockQuantity", map[string]interface{}{"stockQuantity": 2147483648}, http.StatusBadRequest},
		{"oversized sale quantity", http.MethodPost, "/sales", map[string]interface{}{"productId": "p1", "quantity": 2147483648, "unitPrice": 0, "totalAmount": 0, "location": "A"}, http.StatusBadRequest},
		{"delete missing product", http.MethodDelete, "/products/nope", nil, http.StatusNotFound},
		{"mismatched total", http.MethodPost, "/sales", map[string]interface{}{"productId": "p1", "quantity": 3, "unitPrice": 10, "totalAmount": 100, "location": "A"}, http.StatusBadRequest},
		{"bad email", http.MethodPost, "/users", map[string]interface{}{"name": "Ann", "email": "nope"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.method, tc.path, tc.body)
			if w.Code != tc.want {
				t.Fatalf("got %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
			var envelope middleware.ErrorResponse
			decodeBody(t, w, &envelope)
			if envelope.Error.Message == "" || envelope.Error.Timestamp == "" {
				t.Errorf("incomplete error envelope: %s", w.Body.String())
			}
		})
	}

	sales := do(t, h, http.MethodGet, "/sales", nil)
	if strings.TrimSpace(sales.Body.String()) != "[]" {
		t.Errorf("rejected sale must not be persisted, got %s", sales.Body.String())
	}
}

func TestStoreFailureIs500AndLeavesData(t *testing.T) {
	store := memory.NewStore()
	h := newTestRouter(store, service.RecordOptions{})
	do(t, h, http.MethodPost, "/products", widget)
	do(t, h, http.MethodPost, "/sales", widgetSale)
	store.FailDeleteAfterSales = errors.New("connection reset by peer")

	w := do(t, h, http.MethodDelete, "/products/p1", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Errorf("driver error leaked: %s", w.Body.String())
	}

	var sales []domain.Sale
	decodeBody(t, do(t, h, http.MethodGet, "/sales", nil), &sales)
	if len(sales) != 1 || sales[0].Product == nil {
		t.Fatalf("expected sale and product intact, got %+v", sales)
	}
}

func TestPatchStockQuantityReturnsProduct(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})
	do(t, h, http.MethodPost, "/products", widget)

	w := do(t, h, http.MethodPatch, "/products/p1/stockQuantity", map[string]interface{}{"stockQuantity": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", w.Code, w.Body.String())
	}
	var product domain.Product
	decodeBody(t, w, &product)
	if product.StockQuantity != 0 || product.Name != "Widget" || product.Price != 9.99 {
		t.Errorf("unexpected product after patch: %+v", product)
	}
}

func TestCreateUserGeneratesID(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})

	w := do(t, h, http.MethodPost, "/users", map[string]interface{}{"name": "Ann", "email": "ann@example.com", "userId": "ignored"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: %d %s", w.Code, w.Body.String())
	}
	var user domain.User
	decodeBody(t, w, &user)
	if user.UserID == "" || user.UserID == "ignored" {
		t.Errorf("expected generated id, got %q", user.UserID)
	}
}

func TestProperty_SearchMatchesCaseInsensitively(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("search returns exactly the names containing the term in any case", prop.ForAll(
		func(names []string, term string) bool {
			h := newTestRouter(memory.NewStore(), service.RecordOptions{})
			for i, name := range names {
				body := map[string]interface{}{
					"productId": "p" + string(rune('a'+i)), "name": name, "price": 1, "stockQuantity": 1,
				}
				if w := do(t, h, http.MethodPost, "/products", body); w.Code != http.StatusCreated {
					t.Logf("FAIL: create %q: %d", name, w.Code)
					return false
				}
			}

			var got []domain.Product
			decodeBody(t, do(t, h, http.MethodGet, "/products?search="+strings.ToUpper(term), nil), &got)

			want := 0
			for _, name := range names {
				if strings.Contains(strings.ToLower(name), strings.ToLower(term)) {
					want++
				}
			}
			if len(got) != want {
				return false
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].Name > got[i].Name {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.RegexMatch(`[a-c]{1,6}`)),
		gen.RegexMatch(`[a-c]{1,2}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestEmptySearchEqualsNoSearch(t *testing.T) {
	h := newTestRouter(memory.NewStore(), service.RecordOptions{})
	for _, name := range []string{"Zeta", "alpha", "Mid"} {
		do(t, h, http.MethodPost, "/products", map[string]interface{}{
			"productId": name, "name": name, "price": 1, "stockQuantity": 1,
		})
	}

	a := do(t, h, http.MethodGet, "/products", nil).Body.String()
	b := do(t, h, http.MethodGet, "/products?search=", nil).Body.String()
	if a != b {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
}
