package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"luxstay/internal/adapters/backend"
	"luxstay/internal/adapters/observability"
	"luxstay/internal/app"
	"luxstay/internal/domain"
	"luxstay/internal/shared"
)

// seeder loads the sample hotels into the backend, the same way the
// "Load sample hotels" button does, and reports what the listing holds.
func main() {
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("backend", cfg.BackendURL).
		Int("presets", len(domain.SamplePresets())).
		Msg("seeder starting")

	client, err := backend.New(cfg.BackendURL, backend.Options{
		Timeout:     cfg.BackendTimeout,
		RPS:         cfg.BackendRPS,
		MaxInFlight: 1,
		ReadRetries: cfg.BackendReadRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}

	svc := app.NewService(client)
	sess := svc.Mount(ctx, "seeder")
	before := len(sess.Hotels)

	if err := svc.SeedSamples(ctx, sess); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("before", before).Int("after", len(sess.Hotels)).Msg("seeding completed")
}
