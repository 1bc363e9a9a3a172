// Command ingestor imports hotel properties from the hotel content feed into
// MySQL, one goroutine per id and at most WORKERS in flight.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"wanderbot/internal/adapters/hotelfeed"
	"wanderbot/internal/adapters/observability"
	redisad "wanderbot/internal/adapters/redis"
	"wanderbot/internal/app"
	"wanderbot/internal/shared"
	mysqlrepo "wanderbot/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("ingestor aborted")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	if len(cfg.HotelFeedIDs) == 0 {
		return errors.New("HOTELFEED_IDS is empty, nothing to import")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}

	feed, err := hotelfeed.New(cfg.HotelFeedBase, cfg.HotelFeedKey, 5)
	if err != nil {
		return err
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	svc := app.NewIngestionService(feed, mysqlrepo.New(db), cache)
	log.Info().Str("feed", cfg.HotelFeedBase).Int("workers", cfg.Workers).Int("ids", len(cfg.HotelFeedIDs)).Msg("import starting")

	failed := ingestAll(ctx, svc, cfg.HotelFeedIDs, cfg.Workers)
	log.Info().Int64("failed", failed).Int("total", len(cfg.HotelFeedIDs)).Msg("import finished")
	return nil
}

// ingestAll stops launching new imports once ctx is cancelled and returns
// the number of ids that failed.
func ingestAll(ctx context.Context, svc *app.IngestionService, ids []int64, workers int) int64 {
	sem := semaphore.NewWeighted(int64(max(workers, 1)))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			err := svc.IngestHotel(ctx, id)
			observability.ObserveIngest(err)
			if err != nil {
				failed.Add(1)
				log.Warn().Int64("hotel_id", id).Err(err).Msg("import failed")
				return
			}
			log.Info().Int64("hotel_id", id).Msg("imported")
		}()
	}
	wg.Wait()
	return failed.Load()
}
