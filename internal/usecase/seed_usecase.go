package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/rs/zerolog"
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// seedファイル1件分
type SeedProduct struct {
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Brand        string      `json:"brand"`
	Description  string      `json:"description"`
	Price        json.Number `json:"price"`
	CountInStock int64       `json:"countInStock"`
	Rating       float64     `json:"rating"`
	NumReviews   int64       `json:"numReviews"`
	Image        string      `json:"image"`
}

type SeedUsecase struct {
	tx    repo.TransactionManager
	ids   IDGenerator
	clock Clock
	log   zerolog.Logger
}

// DI
func NewSeedUsecase(tx repo.TransactionManager, ids IDGenerator, clock Clock, log zerolog.Logger) *SeedUsecase {
	return &SeedUsecase{tx: tx, ids: ids, clock: clock, log: log}
}

// Importは全件を1トランザクションで入れる。destroyなら先に全削除。
// created_atはファイルの先頭ほど新しい（一覧の並びがファイル順になる）。
func (u *SeedUsecase) Import(ctx context.Context, items []SeedProduct, destroy bool) (int, error) {
	now := u.clock.Now().UTC().Truncate(time.Microsecond)

	products := make([]model.Product, 0, len(items))
	for i, it := range items {
		p, err := toProduct(it)
		if err != nil {
			return 0, NewInvalidRequest(fmt.Sprintf("item %d: %s", i, err.Error()))
		}
		p.ID = u.ids.NewID()
		p.CreatedAt = now.Add(-time.Duration(i) * time.Millisecond)
		p.UpdatedAt = now
		products = append(products, p)
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if destroy {
			if err := r.Products().DeleteAll(ctx); err != nil {
				return err
			}
		}
		for _, p := range products {
			if _, err := r.Products().Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	u.log.Info().Int("count", len(products)).Bool("destroy", destroy).Msg("products imported")
	return len(products), nil
}

// 全商品を消す
func (u *SeedUsecase) Destroy(ctx context.Context) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return r.Products().DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("destroy products: %w", err)
	}
	u.log.Info().Msg("products destroyed")
	return nil
}

func toProduct(it SeedProduct) (model.Product, error) {
	name := strings.TrimSpace(it.Name)
	if name == "" {
		return model.Product{}, fmt.Errorf("name required")
	}
	category := strings.TrimSpace(it.Category)
	if category == "" {
		return model.Product{}, fmt.Errorf("category required")
	}
	price, err := ParsePrice(it.Price.String())
	if err != nil {
		return model.Product{}, err
	}
	if it.Rating < 0 || it.Rating > model.MaxRating {
		return model.Product{}, fmt.Errorf("rating must be between 0 and 5")
	}
	if it.NumReviews < 0 {
		return model.Product{}, fmt.Errorf("numReviews must be >= 0")
	}
	if it.CountInStock < 0 {
		return model.Product{}, fmt.Errorf("countInStock must be >= 0")
	}

	return model.Product{
		Name:         name,
		Category:     category,
		Brand:        strings.TrimSpace(it.Brand),
		Description:  it.Description,
		Price:        price,
		CountInStock: it.CountInStock,
		Rating:       it.Rating,
		NumReviews:   it.NumReviews,
		Image:        it.Image,
	}, nil
}
