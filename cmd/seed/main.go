// Package main provides a CLI tool for seeding the database with sample manufacturers.
package main

import (
	"context"
	"fmt"
	"os"

	"ibeer/internal/config"
	"ibeer/internal/core/apperror"
	"ibeer/internal/domain/catalogs/manufacturer"
	"ibeer/internal/infrastructure/storage/postgres"
	"ibeer/internal/infrastructure/storage/postgres/catalog_repo"
	"ibeer/pkg/logger"
)

var sampleManufacturers = []manufacturer.DTO{
	{Name: "Heineken", Nationality: "Netherlands"},
	{Name: "Ambev", Nationality: "Brazil"},
	{Name: "Anheuser-Busch", Nationality: "United States"},
	{Name: "Carlsberg", Nationality: "Denmark"},
	{Name: "Kirin", Nationality: "Japan"},
	{Name: "Guinness", Nationality: "Ireland"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, cfg.Pool())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to ensure schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)
	service := manufacturer.NewService(catalog_repo.NewManufacturerRepo(txManager), txManager)

	created, skipped, err := seedManufacturers(ctx, service, sampleManufacturers)
	if err != nil {
		log.Fatalw("failed to seed manufacturers", "error", err)
	}

	log.Infow("seeding complete", "created", created, "skipped", skipped)
}

// seedManufacturers creates every sample, counting names that already exist as skipped.
func seedManufacturers(ctx context.Context, service *manufacturer.Service, samples []manufacturer.DTO) (created, skipped int, err error) {
	for _, sample := range samples {
		resp, err := service.Create(ctx, sample)
		switch {
		case apperror.IsDuplicate(err):
			skipped++
			logger.Info(ctx, "manufacturer already exists", "name", sample.Name)
		case err != nil:
			return created, skipped, fmt.Errorf("create %q: %w", sample.Name, err)
		default:
			created++
			logger.Info(ctx, "manufacturer created", "id", resp.ID, "name", resp.Name)
		}
	}
	return created, skipped, nil
}
