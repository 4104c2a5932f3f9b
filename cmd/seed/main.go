package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/infra/store"
	"storefront/internal/logger"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// UUIDv7（時刻順に並ぶ）
type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	file := flag.String("file", "data/products.json", "seed file (JSON array of products)")
	destroy := flag.Bool("destroy", false, "delete all products before import")
	destroyOnly := flag.Bool("destroy-only", false, "delete all products and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "prod")
		bootLog.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.LogLevel, cfg.GoEnv)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connection failed")
	}
	defer st.Close()

	seedUC := usecase.NewSeedUsecase(st.Tx, &uuidGenerator{}, &realClock{}, log)

	if *destroyOnly {
		if err := seedUC.Destroy(ctx); err != nil {
			log.Error().Err(err).Msg("destroy failed")
			os.Exit(1)
		}
		return
	}

	items, err := readSeedFile(*file)
	if err != nil {
		log.Error().Err(err).Str("file", *file).Msg("read seed file")
		os.Exit(1)
	}

	n, err := seedUC.Import(ctx, items, *destroy)
	if err != nil {
		log.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
	log.Info().Int("count", n).Str("file", *file).Msg("seed done")
}

func readSeedFile(path string) ([]usecase.SeedProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var items []usecase.SeedProduct
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}
