package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	"flex_reviews/internal/storage/jsonfile"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func openImporter(cfg shared.Config) domain.ReviewImporter {
	if cfg.StorageBackend == "mysql" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		return mysqlrepo.New(db)
	}
	return jsonfile.New(cfg.DataFile)
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(cfg.ListingIDs) == 0 {
		log.Fatal().Msg("INGEST_LISTING_IDS is empty")
	}
	log.Info().
		Str("base", cfg.HostawayBase).
		Int("workers", cfg.Workers).
		Int("listings", len(cfg.ListingIDs)).
		Msg("ingestor starting")

	repo := openImporter(cfg)

	client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.ListingIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(listingID int64) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := ing.IngestListing(ctx, listingID, cfg.ReviewCount)
			if err != nil {
				log.Warn().Int64("listing", listingID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Int64("listing", listingID).Int("reviews", n).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
