package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"gte=1,lte=999"`
}

// UpdateQuantityRequest represents the quantity change payload. Quantities below 1 are ignored.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=999"`
}

// CartResponse represents the cart with its derived figures
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	storefront *service.Storefront
	logger     *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(storefront *service.Storefront, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, http.StatusOK)
}

// AddItem adds a catalog product to the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		middleware.RespondWithRequestError(w, err)
		return
	}

	if err := h.storefront.AddToCart(r.Context(), req.ProductID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "add item to cart")
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithRequestError(w, err)
		return
	}

	if err := h.storefront.Cart().UpdateQuantity(r.Context(), productID, req.Quantity); err != nil {
		respondWithServiceError(w, h.logger, err, "update cart")
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.storefront.Cart().Remove(r.Context(), productID); err != nil {
		respondWithServiceError(w, h.logger, err, "remove item from cart")
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.storefront.Cart().Clear(r.Context()); err != nil {
		respondWithServiceError(w, h.logger, err, "clear cart")
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, status int) {
	cart := h.storefront.Cart()
	middleware.RespondWithJSON(w, status, CartResponse{
		Items:     cart.Items(),
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "invalid product id", map[string]interface{}{
			"product_id": raw,
		})
		return 0, false
	}
	return id, true
}
