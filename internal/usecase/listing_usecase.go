package usecase

import (
	"context"
	"strings"
)

// カテゴリ入力の種類
const (
	CategoryInputSelect = "select"
	CategoryInputText   = "text"
)

// 一覧画面のレイアウト。画面ごとに複製せずvariantで切り替える。
type ListingLayout struct {
	CategoryInputMode string
	ColumnSpan        int
}

var listingLayouts = map[string]ListingLayout{
	"home":   {CategoryInputMode: CategoryInputSelect, ColumnSpan: 9},
	"search": {CategoryInputMode: CategoryInputText, ColumnSpan: 12},
}

type PriceRangeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type RatingOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type ListingConfig struct {
	Variant           string             `json:"variant"`
	CategoryInputMode string             `json:"categoryInputMode"`
	ColumnSpan        int                `json:"columnSpan"`
	PageSize          int                `json:"pageSize"`
	PriceRanges       []PriceRangeOption `json:"priceRanges"`
	RatingOptions     []RatingOption     `json:"ratingOptions"`
	Categories        []string           `json:"categories"`
}

var defaultPriceRanges = []PriceRangeOption{
	{Value: "", Label: "All"},
	{Value: "0-50", Label: "$0 - $50"},
	{Value: "51-100", Label: "$51 - $100"},
	{Value: "101-200", Label: "$101 - $200"},
}

var defaultRatingOptions = []RatingOption{
	{Value: 0, Label: "Any"},
	{Value: 1, Label: "1 Star"},
	{Value: 2, Label: "2 Stars"},
	{Value: 3, Label: "3 Stars"},
	{Value: 4, Label: "4 Stars"},
	{Value: 5, Label: "5 Stars"},
}

// *ProductUsecase が満たす
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

type ListingUsecase struct {
	categories CategorySource
	pageSize   int
}

// DI
func NewListingUsecase(categories CategorySource, pageSize int) *ListingUsecase {
	return &ListingUsecase{categories: categories, pageSize: pageSize}
}

// Configはvariantの一覧設定を返す。
// カテゴリ一覧はselectのときだけ読む。
func (u *ListingUsecase) Config(ctx context.Context, variant string) (ListingConfig, error) {
	variant = strings.ToLower(strings.TrimSpace(variant))
	layout, ok := listingLayouts[variant]
	if !ok {
		return ListingConfig{}, NewInvalidRequest("unknown listing variant")
	}

	cfg := ListingConfig{
		Variant:           variant,
		CategoryInputMode: layout.CategoryInputMode,
		ColumnSpan:        layout.ColumnSpan,
		PageSize:          u.pageSize,
		PriceRanges:       append([]PriceRangeOption(nil), defaultPriceRanges...),
		RatingOptions:     append([]RatingOption(nil), defaultRatingOptions...),
		Categories:        []string{},
	}

	if layout.CategoryInputMode == CategoryInputSelect {
		categories, err := u.categories.Categories(ctx)
		if err != nil {
			return ListingConfig{}, err
		}
		cfg.Categories = categories
	}
	return cfg, nil
}
