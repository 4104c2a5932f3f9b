package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/store"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（環境変数が優先）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "prod")
		bootLog.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.LogLevel, cfg.GoEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続（connect timeout内に疎通できなければ終了）
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connection failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()
	log.Info().Str("driver", st.Driver).Msg("database connected")

	//Usecase生成
	productUC := usecase.NewProductUsecase(
		st.Products,
		validator.NewCatalogValidator(),
		usecase.CatalogOptions{
			PageSize:     cfg.CatalogPageSize,
			QueryTimeout: cfg.QueryTimeout,
		},
		log,
	)
	listingUC := usecase.NewListingUsecase(productUC, productUC.PageSize())

	//Handler生成
	handlers := server.Handlers{
		Product: handler.NewProductHandler(productUC),
		Listing: handler.NewListingHandler(listingUC),
		Health:  handler.NewHealthHandler(st.Pinger, cfg.DBConnectTimeout),
	}

	//Server起動
	e := server.New(cfg, log, handlers)
	if err := server.Start(ctx, e, cfg.Addr(), log); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
