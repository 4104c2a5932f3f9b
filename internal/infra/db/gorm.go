package db

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// connectTimeout以内にpingが通らなければエラー（起動時に落とす）。
func Connect(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := HealthCheck(ctx, sqlDB, cfg.DBConnectTimeout); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gormDB, nil
}

// productsテーブルを作る
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&model.Product{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Closeは接続プールを閉じる（シャットダウン時）
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
