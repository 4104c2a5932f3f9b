package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "catalog.db"), 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func insertProducts(t *testing.T, r *infraRepo.ProductSQLiteRepository, items ...model.Product) {
	t.Helper()
	for _, p := range items {
		_, err := r.Create(context.Background(), p)
		require.NoError(t, err)
	}
}

func product(id string, name string, category string, price int64, rating float64, minutes int) model.Product {
	return model.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		Rating:    rating,
		Image:     "/images/" + id + ".jpg",
		CreatedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
		UpdatedAt: baseTime,
	}
}

func ids(items []model.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

// =====================
// List
// =====================

func TestProductSQLite_List_OrdersByCreatedAtDescThenID(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("c", "C", "Books", 100, 1, 5),
		product("a", "A", "Books", 100, 1, 10),
		product("b", "B", "Books", 100, 1, 10),
		product("d", "D", "Books", 100, 1, 1),
	)

	items, total, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(items))
	assert.True(t, items[0].CreatedAt.Equal(baseTime.Add(10*time.Minute)))
}

func TestProductSQLite_List_AllFiltersAreConjunctive(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "Blue Phone Case", "Accessories", 1500, 4.5, 1),
		product("b", "Red phone case", "Accessories", 900, 3, 2),
		product("c", "PHONE stand", "Home", 2000, 5, 3),
		product("d", "Desk lamp", "Accessories", 1200, 4.8, 4),
	)

	items, total, err := r.List(context.Background(), repo.ProductListQuery{
		Page:      1,
		Limit:     10,
		Keyword:   "phone",
		MinPrice:  int64Ptr(1000),
		MaxPrice:  int64Ptr(2000),
		MinRating: 4,
		Category:  "Accessories",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"a"}, ids(items))
}

func TestProductSQLite_List_KeywordIsCaseInsensitiveSubstring(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "Cannon EOS 80D DSLR Camera", "Electronics", 92999, 3, 1),
		product("b", "camera strap", "Accessories", 1999, 4, 2),
		product("c", "Tripod", "Accessories", 2999, 4, 3),
	)

	items, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: "CAMERA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(items))
}

func TestProductSQLite_List_KeywordFoldsNonASCII(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "ÉCRAN Pro", "Electronics", 19999, 4, 1),
		product("b", "Straße Map", "Books", 999, 3, 2),
		product("c", "Plain Monitor", "Electronics", 9999, 3, 3),
	)

	for _, kw := range []string{"écran", "ÉCRAN", "Écran pro"} {
		items, total, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: kw})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, kw)
		assert.Equal(t, []string{"a"}, ids(items), kw)
	}

	items, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: "STRASSE"})
	require.NoError(t, err)
	assert.Empty(t, items)

	items, _, err = r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: "STRAßE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(items))
}

func TestProductSQLite_List_KeywordWildcardsAreLiteral(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "Sale 50% off mug", "Kitchen", 500, 3, 1),
		product("b", "Plain mug", "Kitchen", 500, 3, 2),
		product("c", "snake_case poster", "Home", 500, 3, 3),
		product("d", "snakeXcase poster", "Home", 500, 3, 4),
	)

	items, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(items))

	items, _, err = r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Keyword: "snake_case"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(items))
}

func TestProductSQLite_List_CategoryIsExact(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "A", "Books", 100, 1, 1),
		product("b", "B", "books", 100, 1, 2),
		product("c", "C", "Books & More", 100, 1, 3),
	)

	items, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10, Category: "Books"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(items))
}

func TestProductSQLite_List_PriceBoundsAreInclusive(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("lo", "lo", "X", 5000, 1, 1),
		product("hi", "hi", "X", 10000, 1, 2),
		product("out", "out", "X", 10001, 1, 3),
	)

	items, _, err := r.List(context.Background(), repo.ProductListQuery{
		Page: 1, Limit: 10, MinPrice: int64Ptr(5000), MaxPrice: int64Ptr(10000),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "lo"}, ids(items))
}

func TestProductSQLite_List_Pagination(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		insertProducts(t, r, product(id, id, "X", 100, 1, 10-i))
	}

	page1, total, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, []string{"p1", "p2"}, ids(page1))

	page3, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"p5"}, ids(page3))

	page4, total, err := r.List(context.Background(), repo.ProductListQuery{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.NotNil(t, page4)
	assert.Empty(t, page4)
}

func TestProductSQLite_List_HugePageIsEmpty(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("p1", "p1", "X", 100, 1, 2),
		product("p2", "p2", "X", 100, 1, 1),
	)

	for _, page := range []int{math.MaxInt, math.MaxInt/8 + 2} {
		items, total, err := r.List(context.Background(), repo.ProductListQuery{Page: page, Limit: 8})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Empty(t, items, "page=%d", page)
	}
}

func TestProductSQLite_List_CanceledContextIsUnavailable(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 2})
	assert.True(t, errors.Is(err, repo.ErrUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}

// =====================
// Detail / Top / Categories
// =====================

func TestProductSQLite_FindByID(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	p := product("a", "Chef Knife", "Kitchen", 7495, 4.6, 1)
	p.NumReviews = 23
	p.CountInStock = 9
	insertProducts(t, r, p)

	got, err := r.FindByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Chef Knife", got.Name)
	assert.Equal(t, int64(7495), got.Price)
	assert.Equal(t, 4.6, got.Rating)
	assert.Equal(t, int64(23), got.NumReviews)
	assert.Equal(t, int64(9), got.CountInStock)

	_, err = r.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductSQLite_TopRated(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "A", "X", 100, 3, 1),
		product("b", "B", "X", 100, 5, 1),
		product("c", "C", "X", 100, 4.5, 1),
		product("d", "D", "X", 100, 5, 2),
	)

	items, err := r.TopRated(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "c"}, ids(items))
}

func TestProductSQLite_Categories(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("a", "A", "Electronics", 100, 1, 1),
		product("b", "B", "Books", 100, 1, 2),
		product("c", "C", "Electronics", 100, 1, 3),
	)

	categories, err := r.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Electronics"}, categories)
}

// =====================
// Tx
// =====================

func TestTxManagerSQL_RollsBackOnError(t *testing.T) {
	sqlDB := openTestDB(t)
	r := infraRepo.NewProductSQLiteRepository(sqlDB)
	insertProducts(t, r, product("keep", "Keep", "X", 100, 1, 1))

	tm := infraRepo.NewTxManagerSQL(sqlDB)
	boom := errors.New("boom")
	err := tm.WithinTx(context.Background(), func(tx repo.TxRepos) error {
		if err := tx.Products().DeleteAll(context.Background()); err != nil {
			return err
		}
		if _, err := tx.Products().Create(context.Background(), product("new", "New", "X", 100, 1, 2)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	items, total, err := r.List(context.Background(), repo.ProductListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"keep"}, ids(items))
}

// =====================
// Query engine over a real store
// =====================

func newEngine(r repo.ProductRepository, pageSize int) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(
		r,
		validator.NewCatalogValidator(),
		usecase.CatalogOptions{PageSize: pageSize, QueryTimeout: 2 * time.Second},
		zerolog.Nop(),
	)
}

func TestCatalogEngine_PriceRangeAndMinRating(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	insertProducts(t, r,
		product("A", "A", "Books", 4000, 4, 1),
		product("B", "B", "Books", 6000, 2, 2),
		product("C", "C", "Electronics", 4500, 5, 3),
	)
	engine := newEngine(r, 8)

	out, err := engine.ListProducts(context.Background(), usecase.ListProductsInput{
		PageNumber: 1,
		PriceRange: "0-50",
		MinRating:  3,
		Category:   "Books",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(out.Products))
	assert.Equal(t, 1, out.Pages)

	// カテゴリ無しならCも入る
	out, err = engine.ListProducts(context.Background(), usecase.ListProductsInput{
		PageNumber: 1,
		PriceRange: "0-50",
		MinRating:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, ids(out.Products))
}

func TestCatalogEngine_PagesAndOverflowPage(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		insertProducts(t, r, product(id, id, "X", 100, 1, 10-i))
	}
	engine := newEngine(r, 2)

	out, err := engine.ListProducts(context.Background(), usecase.ListProductsInput{PageNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Pages)

	out, err = engine.ListProducts(context.Background(), usecase.ListProductsInput{PageNumber: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, out.Page)
	assert.Equal(t, 3, out.Pages)
	assert.Empty(t, out.Products)

	out, err = engine.ListProducts(context.Background(), usecase.ListProductsInput{PageNumber: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, out.Page)
	assert.Equal(t, 3, out.Pages)
	assert.Empty(t, out.Products)

	out, err = engine.ListProducts(context.Background(), usecase.ListProductsInput{PageNumber: 1, Category: "none"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Pages)
	assert.Empty(t, out.Products)
}

func TestCatalogEngine_ConcurrentIdenticalRequestsAreIdempotent(t *testing.T) {
	r := infraRepo.NewProductSQLiteRepository(openTestDB(t))
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		insertProducts(t, r, product(id, "Item "+id, "X", int64(100*i), float64(i%5), i%3))
	}
	engine := newEngine(r, 4)
	in := usecase.ListProductsInput{PageNumber: 1, Keyword: "item", MinRating: 1}

	first, err := engine.ListProducts(context.Background(), in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := engine.ListProducts(context.Background(), in)
			if assert.NoError(t, err) {
				assert.Equal(t, ids(first.Products), ids(out.Products))
				assert.Equal(t, first.Pages, out.Pages)
			}
		}()
	}
	wg.Wait()
}
