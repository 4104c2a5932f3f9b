package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// ストレージがタイムアウト/接続不可
var ErrUnavailable = errors.New("storage unavailable")

// 一覧検索。条件はすべてAND。
type ProductListQuery struct {
	Page      int
	Limit     int
	Keyword   string
	MinPrice  *int64
	MaxPrice  *int64
	MinRating float64
	Category  string
}

// Offsetはページ番号から読み飛ばす件数。
// 掛け算があふれるページはmath.MaxInt（必ず件数を超える）にする。
func (q ProductListQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	TopRated(ctx context.Context, limit int) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	DeleteAll(ctx context.Context) error
}

// LikePatternはkeywordを部分一致用のLIKEパターンにする。
// %と_はエスケープして文字として扱う（ESCAPE '\'）。
func LikePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}
