package server

import (
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Product *handler.ProductHandler
	Listing *handler.ListingHandler
	Health  *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	h.Product.RegisterRoutes(e)
	h.Listing.RegisterRoutes(e)
	h.Health.RegisterRoutes(e)
}
