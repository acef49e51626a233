package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/database"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/handlers"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/mailer"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/metrics"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/render"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository/postgres"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/router"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// db + migrations
	if err := database.Migrate(cfg); err != nil {
		l.Fatal().Err(err).Msg("migrations failed")
	}
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	// object storage
	store, err := storage.NewS3(context.Background(), cfg.S3)
	if err != nil {
		l.Fatal().Err(err).Msg("object storage init failed")
	}

	// rendering + mail
	pipeline := render.NewPipeline(&render.ChromePDF{Bin: cfg.ChromeBin}, store, cfg.SignedURLTTL, l)
	notifier, err := mailer.New(cfg.SMTP, store, l)
	if err != nil {
		l.Fatal().Err(err).Msg("mailer init failed")
	}

	// repos
	users := postgres.NewUserRepo(pool)
	depts := postgres.NewDepartmentRepo(pool)
	records := make(map[string]repository.RecordRepository)
	for _, res := range handlers.Resources() {
		records[res.Name] = postgres.NewRecordRepo(pool, res.Table, res.UniqueKey)
	}

	// http
	r := router.New(router.Deps{
		Log:      l,
		Cfg:      cfg,
		Users:    users,
		Depts:    depts,
		Records:  records,
		Pipeline: pipeline,
		Notifier: notifier,
		Store:    store,
		Metrics:  metrics.New(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // document generation happens in-request
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
