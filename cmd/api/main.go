package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "flex_reviews/internal/adapters/http_server"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
	"flex_reviews/internal/storage/jsonfile"
	"flex_reviews/internal/storage/memory"
	mysqlrepo "flex_reviews/internal/storage/mysql"
)

func openStore(cfg shared.Config) domain.RecordStore {
	switch cfg.StorageBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db)

	case "memory":
		seed := domain.Snapshot{}
		if b, err := os.ReadFile(cfg.DataFile); err == nil {
			if err := json.Unmarshal(b, &seed); err != nil {
				log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("parse seed data failed")
			}
		} else {
			log.Warn().Str("file", cfg.DataFile).Msg("no seed data file, starting empty")
		}
		return memory.New(seed)

	default:
		return jsonfile.New(cfg.DataFile)
	}
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	store := openStore(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)
	m := app.NewModerationService(store, cache)

	limiter := server.NewRateLimiter(server.LimiterConfig{
		GeneralWindow: cfg.RateGeneralWindow,
		GeneralLimit:  cfg.RateGeneralLimit,
		APIWindow:     cfg.RateAPIWindow,
		APILimit:      cfg.RateAPILimit,
	}, nil)

	srv := server.New(limiter, cfg.AllowedOrigins)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, M: m})

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.StorageBackend).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
