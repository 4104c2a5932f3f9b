package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/storefront 一覧画面の設定
type ListingHandler struct {
	uc *usecase.ListingUsecase
}

// DI
func NewListingHandler(uc *usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{uc: uc}
}

func (h *ListingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/storefront/listing/:variant", h.config)
}

func (h *ListingHandler) config(c echo.Context) error {
	cfg, err := h.uc.Config(c.Request().Context(), c.Param("variant"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}
