package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	repo "storefront/internal/repository"
)

// *sql.DB と *sql.Tx の共通部分
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// modernc.org/sqlite上の実装。ローカル起動とテスト用。
// created_atはUTCのUnixナノ秒で持つ。
type ProductSQLiteRepository struct {
	db sqlExecutor
}

// DI
func NewProductSQLiteRepository(db *sql.DB) *ProductSQLiteRepository {
	return &ProductSQLiteRepository{db: db}
}

const productColumns = `id, name, category, brand, description, price, count_in_stock, rating, num_reviews, image, created_at, updated_at`

// WHERE句とパラメータ
func sqliteWhere(q repo.ProductListQuery) (string, []any) {
	var conds []string
	var args []any

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		conds = append(conds, db.SQLiteLowerFunc+`(name) LIKE ? ESCAPE '\'`)
		args = append(args, repo.LikePattern(strings.ToLower(kw)))
	}
	if q.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.MinRating > 0 {
		conds = append(conds, "rating >= ?")
		args = append(args, q.MinRating)
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		conds = append(conds, "category = ?")
		args = append(args, c)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *ProductSQLiteRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	where, args := sqliteWhere(q)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return []model.Product{}, 0, translate(err)
	}
	if int64(q.Offset()) >= total {
		return []model.Product{}, total, nil
	}

	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	products, err := r.queryProducts(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

func (r *ProductSQLiteRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductSQLiteRepository) TopRated(ctx context.Context, limit int) ([]model.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY rating DESC, created_at DESC, id ASC LIMIT ?"
	return r.queryProducts(ctx, query, limit)
}

func (r *ProductSQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT category FROM products ORDER BY category ASC")
	if err != nil {
		return []string{}, translate(err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return []string{}, translate(err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return []string{}, translate(err)
	}
	return categories, nil
}

func (r *ProductSQLiteRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products ("+productColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID,
		p.Name,
		p.Category,
		p.Brand,
		p.Description,
		p.Price,
		p.CountInStock,
		p.Rating,
		p.NumReviews,
		p.Image,
		p.CreatedAt.UTC().UnixNano(),
		p.UpdatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductSQLiteRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM products")
	return translate(err)
}

func (r *ProductSQLiteRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return []model.Product{}, translate(err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return []model.Product{}, translate(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return []model.Product{}, translate(err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (model.Product, error) {
	var p model.Product
	var createdAt, updatedAt int64
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Brand,
		&p.Description,
		&p.Price,
		&p.CountInStock,
		&p.Rating,
		&p.NumReviews,
		&p.Image,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Product{}, err
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return p, nil
}
