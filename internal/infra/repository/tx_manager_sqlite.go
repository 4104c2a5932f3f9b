package repository

import (
	"context"
	"database/sql"

	repo "storefront/internal/repository"
)

type txReposSQL struct {
	products repo.ProductRepository
}

func (r *txReposSQL) Products() repo.ProductRepository { return r.products }

type TxManagerSQL struct {
	db *sql.DB
}

func NewTxManagerSQL(db *sql.DB) *TxManagerSQL {
	return &TxManagerSQL{db: db}
}

func (tm *TxManagerSQL) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}

	r := &txReposSQL{
		products: &ProductSQLiteRepository{db: tx},
	}
	if err := fn(r); err != nil {
		_ = tx.Rollback()
		return err
	}
	return translate(tx.Commit())
}
