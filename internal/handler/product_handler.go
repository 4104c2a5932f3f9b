package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		//503はリトライしてよいことを伝える
		if errors.Is(err, usecase.ErrStorageUnavailable) {
			c.Response().Header().Set("Retry-After", "1")
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 商品のレスポンス。priceは "40.00" の数値で返す。
type ProductResponse struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Brand        string      `json:"brand"`
	Description  string      `json:"description"`
	Price        json.Number `json:"price"`
	CountInStock int64       `json:"countInStock"`
	Rating       float64     `json:"rating"`
	NumReviews   int64       `json:"numReviews"`
	Image        string      `json:"image"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Brand:        p.Brand,
		Description:  p.Description,
		Price:        json.Number(usecase.FormatPrice(p.Price)),
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Image:        p.Image,
		CreatedAt:    p.CreatedAt,
	}
}

func toProductResponses(items []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return out
}

// /api/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/products")
	g.GET("", h.list)
	g.GET("/top", h.top)
	g.GET("/categories", h.categories)
	g.GET("/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	// pageNumber（default 1）
	pageNumber := 1
	if v := c.QueryParam("pageNumber"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return writeError(c, usecase.NewInvalidRequest("invalid pageNumber"))
		}
		pageNumber = p
	}

	// minRating（default 0）
	minRating := 0.0
	if v := c.QueryParam("minRating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return writeError(c, usecase.NewInvalidRequest("invalid minRating"))
		}
		minRating = r
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Keyword:    c.QueryParam("keyword"),
		PageNumber: pageNumber,
		PriceRange: c.QueryParam("priceRange"),
		MinRating:  minRating,
		Category:   c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ProductListResponse{
		Products: toProductResponses(out.Products),
		Page:     out.Page,
		Pages:    out.Pages,
	})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) top(c echo.Context) error {
	items, err := h.uc.TopProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponses(items))
}

func (h *ProductHandler) categories(c echo.Context) error {
	categories, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}
