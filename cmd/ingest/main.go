// Command ingest runs a single ingestion pass and exits. It is the manual
// counterpart to the long-running worker: same pipeline, no scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/renaqd/team1-ADS507/internal/cache"
	"github.com/renaqd/team1-ADS507/internal/config"
	"github.com/renaqd/team1-ADS507/internal/nba"
	"github.com/renaqd/team1-ADS507/internal/pipeline"
	"github.com/renaqd/team1-ADS507/internal/repository"
	"github.com/renaqd/team1-ADS507/internal/retry"
)

func main() {
	kind := flag.String("kind", "all", "what to ingest: teams, players, hustle, or all")
	days := flag.Int("days", 0, "override GAMES_DAYS_BACK for the hustle game window")
	flag.Parse()

	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	cfg := config.MustLoad()
	if *days > 0 {
		cfg.GamesDaysBack = *days
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cancelling run...")
		cancel()
	}()

	policy := retry.Policy{
		MaxAttempts: cfg.FetchMaxRetries,
		BaseDelay:   cfg.FetchBaseDelay,
		Multiplier:  2,
		JitterBound: cfg.FetchJitterBound,
	}
	statsClient := nba.NewClient(cfg.NBAStatsBaseURL, cfg.Season, cfg.NBAStatsTimeout, policy)

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:      cfg.DatabaseHost,
		Port:      strconv.Itoa(cfg.DatabasePort),
		User:      cfg.DatabaseUser,
		Password:  cfg.DatabasePassword,
		Database:  cfg.DatabaseName,
		SSLMode:   cfg.DatabaseSSLMode,
		BatchSize: cfg.WriterBatchSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	pipe := pipeline.New(cfg, statsClient, db, redisCache)

	var reports []pipeline.Report
	switch *kind {
	case "teams":
		reports = append(reports, pipe.RunTeams(ctx))
	case "players":
		reports = append(reports, pipe.RunPlayers(ctx))
	case "hustle":
		reports = append(reports, pipe.RunHustle(ctx))
	case "all":
		reports = pipe.RunAll(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown -kind %q (want teams, players, hustle, or all)\n", *kind)
		os.Exit(2)
	}

	failed := 0
	for _, report := range reports {
		report.Log()
		if report.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("Ingestion finished with failures")
		os.Exit(1)
	}
	log.Info().Msg("Ingestion complete")
}
