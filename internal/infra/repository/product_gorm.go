package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 条件（AND）だけを積んだクエリ。countとページ取得で同じものを使う。
func filterProducts(tx *gorm.DB, q repo.ProductListQuery) *gorm.DB {
	tx = tx.Model(&model.Product{})

	// keyword nameを対象（大文字小文字を区別しない部分一致）
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		tx = tx.Where(`name ILIKE ? ESCAPE '\'`, repo.LikePattern(kw))
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	//評価
	if q.MinRating > 0 {
		tx = tx.Where("rating >= ?", q.MinRating)
	}

	//カテゴリ（完全一致）
	if c := strings.TrimSpace(q.Category); c != "" {
		tx = tx.Where("category = ?", c)
	}
	return tx
}

// 新しい順、同時刻はid昇順で1ページ分
func pageProducts(tx *gorm.DB, q repo.ProductListQuery) *gorm.DB {
	return filterProducts(tx, q).
		Order("created_at desc").
		Order("id asc").
		Offset(q.Offset()).
		Limit(q.Limit)
}

// 検索/価格帯/評価/カテゴリ/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	products := []model.Product{}
	var total int64

	db := r.db.WithContext(ctx)

	//total（件数）
	if err := filterProducts(db, q).Count(&total).Error; err != nil {
		return []model.Product{}, 0, translate(err)
	}

	// ページが範囲外なら取りに行かない
	if int64(q.Offset()) >= total {
		return products, total, nil
	}

	if err := pageProducts(db, q).Find(&products).Error; err != nil {
		return []model.Product{}, 0, translate(err)
	}

	return products, total, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 評価の高い順（カルーセル用）
func (r *ProductGormRepository) TopRated(ctx context.Context, limit int) ([]model.Product, error) {
	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Order("rating desc").
		Order("created_at desc").
		Order("id asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, translate(err)
	}
	return products, nil
}

// カテゴリの一覧（重複なし、昇順）
func (r *ProductGormRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error
	if err != nil {
		return []string{}, translate(err)
	}
	return categories, nil
}

// 商品の作成（seed用）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 全商品の削除（seed用）
func (r *ProductGormRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Product{}).Error
	return translate(err)
}
