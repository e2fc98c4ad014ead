package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Product{
		{ID: 1, Name: "Studio Headphones", Category: "Audio", Brand: "SoundMax", Price: decimal.NewFromInt(100), Rating: 4.1},
		{ID: 2, Name: "Pocket Speaker", Category: "Audio", Brand: "Lumina", Price: decimal.NewFromInt(50), OnSale: true, SalePrice: decimal.NewFromInt(40), Rating: 4.7},
		{ID: 3, Name: "Panel TV", Category: "Televisions", Brand: "Visionex", Price: decimal.NewFromInt(700), Rating: 3.9},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func newTestRouter(t testing.TB, store storage.Store) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	sf, err := service.OpenSession(context.Background(), testCatalog(t), store, service.SessionConfig{
		Namespace: "http",
		Orders:    service.OrderOptions{Clock: service.FixedClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))},
	}, logger)
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}

	r := chi.NewRouter()
	r.NotFound(middleware.NotFoundHandler)
	NewCatalogHandler(sf, logger).RegisterRoutes(r)
	NewCartHandler(sf, logger).RegisterRoutes(r)
	NewOrderHandler(sf, logger).RegisterRoutes(r)
	return r
}

func do(t testing.TB, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid response %q: %v", w.Body.String(), err)
	}
	return v
}

func productIDs(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/catalog/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Audio", "Televisions"}, decode[[]string](t, w))

	w = do(t, h, http.MethodGet, "/api/catalog/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Lumina", "SoundMax", "Visionex"}, decode[[]string](t, w))
}

func TestListProducts(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	tests := []struct {
		name     string
		query    string
		wantIDs  []int
		wantHint bool
	}{
		{"no filters", "", []int{1, 2, 3}, false},
		{"search is case insensitive", "?q=PANEL", []int{3}, false},
		{"repeated categories", "?category=Audio&category=Televisions", []int{1, 2, 3}, false},
		{"brand", "?brand=Lumina", []int{2}, false},
		{"on sale", "?on_sale=true", []int{2}, false},
		{"price uses effective price", "?min_price=40&max_price=40", []int{2}, false},
		{"unparseable bound ignored", "?min_price=abc&max_price=100", []int{1, 2}, false},
		{"sorted by price", "?sort=price-desc", []int{3, 1, 2}, false},
		{"hint adopted", "?hint=Televisions", []int{3}, true},
		{"hint ignored with active category", "?category=Audio&hint=Televisions", []int{1, 2}, false},
		{"unknown hint ignored", "?hint=Garden", []int{1, 2, 3}, false},
		{"nothing matches", "?q=zzz", []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/catalog/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[ProductListResponse](t, w)
			assert.Equal(t, tt.wantIDs, productIDs(resp.Products))
			assert.Equal(t, len(tt.wantIDs), resp.Count)
			assert.Equal(t, tt.wantHint, resp.HintApplied)
		})
	}
}

func TestListProductsEmptyResultIsArray(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/catalog/products?q=nothing", nil)
	assert.Contains(t, w.Body.String(), `"products":[]`)
}

func TestListProductsBadOnSale(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/catalog/products?on_sale=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRoutes(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 2, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	cart := decode[CartResponse](t, w)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(240)), "total = %s", cart.Total)
	assert.Equal(t, 3, cart.ItemCount)

	w = do(t, h, http.MethodPatch, "/api/cart/items/1", UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[CartResponse](t, w).ItemCount, "quantity 0 is ignored")

	w = do(t, h, http.MethodPatch, "/api/cart/items/1", UpdateQuantityRequest{Quantity: 5})
	assert.Equal(t, 6, decode[CartResponse](t, w).ItemCount)

	w = do(t, h, http.MethodDelete, "/api/cart/items/2", nil)
	assert.Equal(t, 5, decode[CartResponse](t, w).ItemCount)

	w = do(t, h, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[CartResponse](t, w)
	assert.Equal(t, 0, cart.ItemCount)
	assert.NotNil(t, cart.Items)

	w = do(t, h, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 0, decode[CartResponse](t, w).ItemCount)
}

func TestCartRouteErrors(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown product", http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 99, Quantity: 1}, http.StatusNotFound},
		{"zero quantity", http.MethodPost, "/api/cart/items", map[string]int{"product_id": 1, "quantity": 0}, http.StatusBadRequest},
		{"missing product", http.MethodPost, "/api/cart/items", map[string]int{"quantity": 1}, http.StatusBadRequest},
		{"quantity above max", http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 1, Quantity: 1000}, http.StatusBadRequest},
		{"update above max", http.MethodPatch, "/api/cart/items/1", UpdateQuantityRequest{Quantity: 1000}, http.StatusBadRequest},
		{"bad path id", http.MethodPatch, "/api/cart/items/abc", UpdateQuantityRequest{Quantity: 1}, http.StatusBadRequest},
		{"negative path id", http.MethodDelete, "/api/cart/items/-3", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestCartAddBeyondLineMax(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 1, Quantity: 999})
	require.Less(t, w.Code, 300, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 1, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 999, decode[CartResponse](t, w).ItemCount)
}

func TestOrderRoutes(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodPost, "/api/orders", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "cannot place an order with nothing in it", decode[middleware.ErrorResponse](t, w).Error.Message)

	do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 1, Quantity: 2})
	do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 2, Quantity: 1})

	w = do(t, h, http.MethodPost, "/api/orders", CheckoutRequest{PaymentMethod: "PayPal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[domain.Order](t, w)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, "PayPal", order.PaymentMethod)
	assert.Equal(t, "2026-10-18", order.Date)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	w = do(t, h, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 0, decode[CartResponse](t, w).ItemCount)

	w = do(t, h, http.MethodPost, "/api/orders/buy-now", BuyNowRequest{ProductID: 3, Quantity: 1})
	require.Equal(t, http.StatusCreated, w.Code)
	buyNow := decode[domain.Order](t, w)
	assert.Equal(t, domain.DefaultPaymentMethod, buyNow.PaymentMethod)

	w = do(t, h, http.MethodGet, "/api/orders", nil)
	list := decode[OrderListResponse](t, w)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, buyNow.ID, list.Orders[0].ID)
	assert.Equal(t, order.ID, list.Orders[1].ID)

	w = do(t, h, http.MethodGet, "/api/orders/"+order.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.ID, decode[domain.Order](t, w).ID)

	w = do(t, h, http.MethodGet, "/api/orders/ORD-NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuyNowErrors(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodPost, "/api/orders/buy-now", BuyNowRequest{ProductID: 404, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/orders/buy-now", map[string]int{"product_id": 1, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/orders/buy-now", BuyNowRequest{ProductID: 1, Quantity: 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, 0, decode[OrderListResponse](t, w).Count)
}

func TestStatePersistsAcrossRouters(t *testing.T) {
	store := storage.NewMemoryStore()
	first := newTestRouter(t, store)
	do(t, first, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: 3, Quantity: 2})

	second := newTestRouter(t, store)
	w := do(t, second, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 2, decode[CartResponse](t, w).ItemCount)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/wishlist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "route not found"))
}

// Property: the total reported over HTTP equals the sum of what was added
func TestProperty_CartTotalOverHTTP(t *testing.T) {
	properties := gopter.NewProperties(nil)

	prices := map[int]decimal.Decimal{1: decimal.NewFromInt(100), 2: decimal.NewFromInt(40), 3: decimal.NewFromInt(700)}

	properties.Property("cart total matches added quantities", prop.ForAll(
		func(q1, q2, q3 int) bool {
			h := newTestRouter(t, storage.NewMemoryStore())
			expected := decimal.Zero
			count := 0
			for id, q := range map[int]int{1: q1, 2: q2, 3: q3} {
				w := do(t, h, http.MethodPost, "/api/cart/items", AddItemRequest{ProductID: id, Quantity: q})
				if w.Code != http.StatusOK {
					return false
				}
				expected = expected.Add(prices[id].Mul(decimal.NewFromInt(int64(q))))
				count += q
			}

			cart := decode[CartResponse](t, do(t, h, http.MethodGet, "/api/cart", nil))
			return cart.Total.Equal(expected) && cart.ItemCount == count
		},
		gen.IntRange(1, 5),
		gen.IntRange(1, 5),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
