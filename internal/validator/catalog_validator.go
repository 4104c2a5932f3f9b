package validator

import (
	"errors"
	"strings"

	"storefront/internal/usecase"

	v10 "github.com/go-playground/validator/v10"
)

// 一覧入力のルール
type listRules struct {
	Keyword    string  `validate:"max=100"`
	PageNumber int     `validate:"gte=1"`
	MinRating  float64 `validate:"gte=0,lte=5"`
	Category   string  `validate:"max=100"`
}

// フィールドごとのエラーメッセージ
var listMessages = map[string]string{
	"Keyword":    "keyword too long",
	"PageNumber": "invalid pageNumber",
	"MinRating":  "minRating must be between 0 and 5",
	"Category":   "category too long",
}

type catalogValidator struct {
	v *v10.Validate
}

// Usecaseは interface を依存注入
func NewCatalogValidator() usecase.ListValidator {
	return &catalogValidator{v: v10.New()}
}

// 最初に引っかかったフィールドだけ返す。
// 文字列は絞り込みと同じくtrim後の長さで見る。
func (c *catalogValidator) ValidateList(in usecase.ListProductsInput) error {
	err := c.v.Struct(listRules{
		Keyword:    strings.TrimSpace(in.Keyword),
		PageNumber: in.PageNumber,
		MinRating:  in.MinRating,
		Category:   strings.TrimSpace(in.Category),
	})
	if err == nil {
		return nil
	}

	var ve v10.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		if msg, ok := listMessages[ve[0].Field()]; ok {
			return usecase.NewInvalidRequest(msg)
		}
	}
	return usecase.NewInvalidRequest("invalid request")
}
