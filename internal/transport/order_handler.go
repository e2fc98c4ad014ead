package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload. The body may be omitted.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"max=64"`
}

// BuyNowRequest represents the single-product purchase payload
type BuyNowRequest struct {
	ProductID     int    `json:"product_id" validate:"required,gt=0"`
	Quantity      int    `json:"quantity" validate:"gte=1,lte=999"`
	PaymentMethod string `json:"payment_method" validate:"max=64"`
}

// OrderListResponse represents the order history, newest first
type OrderListResponse struct {
	Orders []domain.Order `json:"orders"`
	Count  int            `json:"count"`
}

// OrderHandler handles HTTP requests for the order lifecycle
type OrderHandler struct {
	storefront *service.Storefront
	logger     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(storefront *service.Storefront, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.Checkout)
		r.Post("/buy-now", h.BuyNow)
		r.Get("/{orderID}", h.GetOrder)
	})
}

// Checkout places an order for the cart and empties it
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if r.ContentLength != 0 {
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.RespondWithRequestError(w, err)
			return
		}
	}

	order, err := h.storefront.Checkout(r.Context(), req.PaymentMethod)
	if err != nil {
		if order.ID != "" {
			h.logger.Error("Order placed but cart not cleared", zap.String("order_id", order.ID), zap.Error(err))
			middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "order placed but cart could not be cleared", map[string]interface{}{
				"order_id": order.ID,
			})
			return
		}
		respondWithServiceError(w, h.logger, err, "place order")
		return
	}

	h.logger.Info("Order placed", zap.String("order_id", order.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// BuyNow orders a single product without touching the cart
func (h *OrderHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	var req BuyNowRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithRequestError(w, err)
		return
	}

	order, err := h.storefront.BuyNow(r.Context(), req.ProductID, req.Quantity, req.PaymentMethod)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "place order")
		return
	}

	h.logger.Info("Buy-now order placed", zap.String("order_id", order.ID), zap.Int("product_id", req.ProductID))
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.storefront.OrderHistory()
	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{
		Orders: orders,
		Count:  len(orders),
	})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.storefront.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
