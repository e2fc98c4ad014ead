package transport

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse is the result of a catalog query
type ProductListResponse struct {
	Products    []domain.Product `json:"products"`
	Count       int              `json:"count"`
	HintApplied bool             `json:"hint_applied"`
}

// CatalogHandler serves the read-only catalog
type CatalogHandler struct {
	storefront *service.Storefront
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(storefront *service.Storefront, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/brands", h.ListBrands)
		r.Get("/products", h.ListProducts)
	})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.ListCategories())
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.storefront.ListBrands())
}

// ListProducts filters the catalog from query parameters:
// q, category (repeatable), brand (repeatable), on_sale, min_price, max_price, sort and hint.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := domain.NewFilterCriteria()
	criteria.SetSearchQuery(strings.TrimSpace(query.Get("q")))
	for _, c := range query["category"] {
		if c != "" && !criteria.Categories.Has(c) {
			criteria.ToggleCategory(c)
		}
	}
	for _, b := range query["brand"] {
		if b != "" && !criteria.Brands.Has(b) {
			criteria.ToggleBrand(b)
		}
	}
	criteria.SetPriceRange(query.Get("min_price"), query.Get("max_price"))

	if raw := query.Get("on_sale"); raw != "" {
		onSale, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "invalid query parameter", map[string]interface{}{
				"on_sale": raw,
			})
			return
		}
		criteria.SetOnSale(onSale)
	}

	hintApplied := catalog.ApplyCategoryHint(&criteria, query.Get("hint"), h.storefront.Catalog())

	products := catalog.Sort(h.storefront.Filter(criteria), catalog.SortKey(query.Get("sort")))

	h.logger.Debug("Catalog filtered",
		zap.Int("results", len(products)),
		zap.Strings("categories", criteria.Categories.Sorted()),
		zap.Bool("hint_applied", hintApplied),
	)

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:    products,
		Count:       len(products),
		HintApplied: hintApplied,
	})
}
