// Command server runs the open-data registry API. Optional backends
// (postgres, redis, kafka, smtp) are wired when configured and replaced by
// in-memory counterparts otherwise, so a bare `go run` gives a working
// development instance.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	authdomain "ordr/internal/auth"
	authhandler "ordr/internal/auth/handler"
	datasethandler "ordr/internal/dataset/handler"
	datasetservice "ordr/internal/dataset/service"
	datasetstore "ordr/internal/dataset/store"
	"ordr/internal/notify"
	"ordr/internal/platform/config"
	"ordr/internal/platform/httpserver"
	"ordr/internal/platform/logger"
	"ordr/internal/platform/metrics"
	"ordr/internal/refdata"
	refdatahandler "ordr/internal/refdata/handler"
	"ordr/internal/scoring/cache"
	scoringhandler "ordr/internal/scoring/handler"
	scoringservice "ordr/internal/scoring/service"
	httptransport "ordr/internal/transport/http"
	"ordr/pkg/platform/audit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref := refdata.Seed()
	m := metrics.New()

	store, cleanup, err := newDatasetStore(ctx, cfg, ref)
	if err != nil {
		return err
	}
	defer cleanup()

	reportCache, err := cache.New(cfg.RedisURL, config.ReportCacheTTL)
	if err != nil {
		return err
	}
	defer reportCache.Close()
	if reportCache != nil {
		log.Info("report cache enabled", "ttl", config.ReportCacheTTL.String())
	}

	auditor, closeAudit, err := newAuditor(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAudit()

	notifier, runNotifier := newNotifier(cfg, log)

	authSvc, err := authdomain.New(
		authdomain.NewInMemoryUserStore(),
		authdomain.NewInMemoryOptInStore(),
		cfg.JWTSigningKey,
		authdomain.WithLogger(log),
		authdomain.WithAuditor(auditor),
	)
	if err != nil {
		return err
	}

	datasetSvc, err := datasetservice.New(store, ref, authSvc, cfg.AdminMail,
		datasetservice.WithLogger(log),
		datasetservice.WithNotifier(notifier),
		datasetservice.WithAuditor(auditor),
		datasetservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	scoringSvc, err := scoringservice.New(store, ref,
		scoringservice.WithLogger(log),
		scoringservice.WithCache(reportCache),
		scoringservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: m,
		Handlers: []httptransport.Registrar{
			refdatahandler.New(ref),
			authhandler.New(authSvc, log, m),
			datasethandler.New(datasetSvc, authSvc, log),
			scoringhandler.New(scoringSvc, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting ordr registry", "addr", cfg.Addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if runNotifier != nil {
		g.Go(func() error {
			if err := runNotifier(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newDatasetStore(ctx context.Context, cfg config.Server, ref refdata.Store) (datasetstore.Store, func(), error) {
	if cfg.PostgresDSN == "" {
		return datasetstore.NewInMemory(ref), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	pg := datasetstore.NewPostgres(db, ref)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, func() { db.Close() }, nil
}

func newAuditor(ctx context.Context, cfg config.Server) (*audit.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		auditor := audit.NewPublisher(audit.NewInMemoryStore())
		return auditor, auditor.Close, nil
	}
	kafkaStore, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	auditor := audit.NewPublisher(kafkaStore, audit.WithAsyncBuffer(256))
	return auditor, func() {
		auditor.Close()
		kafkaStore.Close()
	}, nil
}

func newNotifier(cfg config.Server, log *slog.Logger) (notify.Notifier, func(context.Context) error) {
	if cfg.SMTPAddr == "" {
		log.Info("smtp not configured, notifications are collected in memory")
		return notify.NewMemory(), nil
	}
	worker := notify.NewWorker(notify.NewSMTP(cfg.SMTPAddr, cfg.MailFrom), log, 64)
	return worker, worker.Run
}
