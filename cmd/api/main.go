package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"wanderbot/internal/adapters/gemini"
	server "wanderbot/internal/adapters/http_server"
	"wanderbot/internal/adapters/imagehost"
	"wanderbot/internal/adapters/observability"
	redisad "wanderbot/internal/adapters/redis"
	"wanderbot/internal/adapters/weather"
	"wanderbot/internal/app"
	"wanderbot/internal/assistant"
	"wanderbot/internal/domain"
	"wanderbot/internal/shared"
	mysqlrepo "wanderbot/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, cache reads will miss")
	}

	wx := weather.New(cfg.WeatherBase, cfg.GeocodingBase, 5)

	var images domain.ImageHost
	if cfg.ImageUploadURL != "" {
		ih, err := imagehost.New(cfg.ImageUploadURL, cfg.ImagePreset)
		if err != nil {
			log.Fatal().Err(err).Msg("image host init failed")
		}
		images = ih
	} else {
		log.Warn().Msg("IMAGEHOST_UPLOAD_URL is empty, image uploads disabled")
	}

	var gen domain.Generator
	if g, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GenAIKey,
		Model:      cfg.GeminiModel,
		APIVersion: cfg.GeminiVersion,
		BaseURL:    cfg.GeminiBaseURL,
		EmbedModel: cfg.GeminiEmbedding,
	}); err != nil {
		log.Warn().Err(err).Msg("generative model disabled")
	} else {
		gen = g
	}

	hotels := app.NewQueryService(repo, cache, cfg.CacheTTL)
	asst, err := app.NewAssistantService(gen, &assistant.ToolRouter{Geocoder: wx, Weather: wx, Hotels: hotels}, cache,
		assistant.Config{Offline: true, ModelTools: cfg.AssistantTools})
	if err != nil {
		log.Fatal().Err(err).Msg("assistant init failed")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Experiences:     app.NewExperienceService(repo, images, gen),
		Hotels:          hotels,
		Promotions:      app.NewPromotionService(repo),
		Recommendations: app.NewRecommendationService(repo, wx, cache, cfg.RecommendWorkers),
		Assistant:       asst,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
