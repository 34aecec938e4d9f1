package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"luxstay/internal/adapters/backend"
	server "luxstay/internal/adapters/http_server"
	"luxstay/internal/adapters/observability"
	redisad "luxstay/internal/adapters/redis"
	"luxstay/internal/app"
	"luxstay/internal/domain"
	"luxstay/internal/session"
	"luxstay/internal/shared"
	"luxstay/internal/storage/memory"
	mysqlrepo "luxstay/internal/storage/mysql"
)

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	client, err := backend.New(cfg.BackendURL, backend.Options{
		Timeout:     cfg.BackendTimeout,
		RPS:         cfg.BackendRPS,
		MaxInFlight: cfg.BackendMaxInFlight,
		ReadRetries: cfg.BackendReadRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.SessionStore).Msg("session store unavailable")
	}
	defer closeStore()

	cookies := session.NewCookies(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	h, err := server.NewHandlers(app.NewService(client), store, cookies, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("load page templates failed")
	}

	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h, cfg.CORSOrigins)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendURL).Str("store", cfg.SessionStore).Msg("web listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if p, ok := store.(purger); ok {
		g.Go(func() error {
			janitor(gctx, p, cfg.SessionTTL)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("web stopped")
}

func openSessionStore(ctx context.Context, cfg shared.Config) (domain.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		return rs, func() { _ = rs.Close() }, nil
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), func() { _ = db.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}

// janitor drops expired sessions from stores without native expiry.
func janitor(ctx context.Context, p purger, ttl time.Duration) {
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge expired sessions failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("expired sessions purged")
			}
		}
	}
}
