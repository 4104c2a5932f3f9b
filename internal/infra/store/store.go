package store

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
)

// Storeは起動時に取得してシャットダウンで閉じる接続のまとまり
type Store struct {
	Products repo.ProductRepository
	Tx       repo.TransactionManager
	Pinger   db.Pinger
	Driver   string

	close func() error
}

// OpenはDB_DRIVERに応じて接続し、疎通確認とスキーマ作成まで行う。
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath, cfg.DBConnectTimeout)
		if err != nil {
			return nil, err
		}
		return &Store{
			Products: infraRepo.NewProductSQLiteRepository(sqlDB),
			Tx:       infraRepo.NewTxManagerSQL(sqlDB),
			Pinger:   sqlDB,
			Driver:   cfg.DBDriver,
			close:    sqlDB.Close,
		}, nil

	case config.DriverPostgres:
		gormDB, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			_ = db.Close(gormDB)
			return nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			_ = db.Close(gormDB)
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		return &Store{
			Products: infraRepo.NewProductGormRepository(gormDB),
			Tx:       infraRepo.NewTxManagerGorm(gormDB),
			Pinger:   sqlDB,
			Driver:   cfg.DBDriver,
			close:    sqlDB.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}

func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
