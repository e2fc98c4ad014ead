package transport

import (
	"errors"
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"go.uber.org/zap"
)

// respondWithServiceError maps core errors onto HTTP responses
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, service.ErrEmptyCart.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, service.ErrInvalidQuantity.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	default:
		logger.Error("Request failed", zap.String("action", action), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
	}
}
