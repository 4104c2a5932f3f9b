package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
)

// カルーセルに出す件数
const topProductsLimit = 3

// 一覧入力の検証（go-playground/validator実装を注入）
type ListValidator interface {
	ValidateList(in ListProductsInput) error
}

type CatalogOptions struct {
	PageSize     int
	QueryTimeout time.Duration
}

// 状態を持たないので並行に呼んでよい。
type ProductUsecase struct {
	productRepo  repo.ProductRepository
	validator    ListValidator
	pageSize     int
	queryTimeout time.Duration
	log          zerolog.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	validator ListValidator,
	opts CatalogOptions,
	log zerolog.Logger,
) *ProductUsecase {
	if opts.PageSize < 1 {
		opts.PageSize = 8
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 3 * time.Second
	}
	return &ProductUsecase{
		productRepo:  productRepo,
		validator:    validator,
		pageSize:     opts.PageSize,
		queryTimeout: opts.QueryTimeout,
		log:          log,
	}
}

func (u *ProductUsecase) PageSize() int {
	return u.pageSize
}

// GET /api/productsの入力DTO
type ListProductsInput struct {
	Keyword    string
	PageNumber int
	PriceRange string
	MinRating  float64
	Category   string
}

type ProductListOutput struct {
	Products []model.Product
	Page     int
	Pages    int
}

// ListProductsは条件（AND）で絞り込み、新しい順の1ページを返す。
// Pageは要求されたページ番号をそのまま返す（範囲外なら商品は空）。
func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if err := u.validator.ValidateList(in); err != nil {
		return ProductListOutput{}, err
	}
	pr, err := ParsePriceRange(in.PriceRange)
	if err != nil {
		return ProductListOutput{}, err
	}

	q := repo.ProductListQuery{
		Page:      in.PageNumber,
		Limit:     u.pageSize,
		Keyword:   strings.TrimSpace(in.Keyword),
		MinRating: in.MinRating,
		Category:  strings.TrimSpace(in.Category),
	}
	if pr != nil {
		q.MinPrice = &pr.Min
		q.MaxPrice = &pr.Max
	}

	type page struct {
		items []model.Product
		total int64
	}
	res, err := withTimeout(ctx, u.queryTimeout, func(ctx context.Context) (page, error) {
		items, total, err := u.productRepo.List(ctx, q)
		return page{items: items, total: total}, err
	})
	if err != nil {
		return ProductListOutput{}, u.storageError("list products", err)
	}

	pages := pageCount(res.total, u.pageSize)
	items := res.items
	//範囲外のページは何が返っても空
	if items == nil || in.PageNumber > pages {
		items = []model.Product{}
	}
	return ProductListOutput{
		Products: items,
		Page:     in.PageNumber,
		Pages:    pages,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || len(productID) > 64 {
		return model.Product{}, NewInvalidRequest("invalid product id")
	}

	p, err := withTimeout(ctx, u.queryTimeout, func(ctx context.Context) (model.Product, error) {
		return u.productRepo.FindByID(ctx, productID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, u.storageError("get product", err)
	}
	return p, nil
}

// 評価の高い商品（カルーセル）
func (u *ProductUsecase) TopProducts(ctx context.Context) ([]model.Product, error) {
	items, err := withTimeout(ctx, u.queryTimeout, func(ctx context.Context) ([]model.Product, error) {
		return u.productRepo.TopRated(ctx, topProductsLimit)
	})
	if err != nil {
		return []model.Product{}, u.storageError("top products", err)
	}
	if items == nil {
		items = []model.Product{}
	}
	return items, nil
}

func (u *ProductUsecase) Categories(ctx context.Context) ([]string, error) {
	categories, err := withTimeout(ctx, u.queryTimeout, u.productRepo.Categories)
	if err != nil {
		return []string{}, u.storageError("categories", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// 接続系は503（リトライ可）、それ以外は500
func (u *ProductUsecase) storageError(op string, err error) error {
	if errors.Is(err, repo.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		u.log.Warn().Err(err).Str("op", op).Msg("storage unavailable")
		return NewStorageUnavailable(err)
	}
	u.log.Error().Err(err).Str("op", op).Msg("db error")
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// pages = ceil(total / size)
func pageCount(total int64, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	s := int64(size)
	return int((total + s - 1) / s)
}

// fnがctxを無視して止まっても、timeoutで呼び出し元に返す。
// chはバッファ1なのでgoroutineは結果を書いて終わる。
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
