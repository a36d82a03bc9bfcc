package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	annhandler "redink/internal/annotation/handler"
	annservice "redink/internal/annotation/service"
	annstore "redink/internal/annotation/store"
	"redink/internal/content"
	"redink/internal/convert"
	dochandler "redink/internal/document/handler"
	docservice "redink/internal/document/service"
	docstore "redink/internal/document/store"
	httpapi "redink/internal/http"
	ownerhandler "redink/internal/owner/handler"
	ownerservice "redink/internal/owner/service"
	ownerstore "redink/internal/owner/store"
	"redink/internal/platform/config"
	"redink/internal/platform/database"
	"redink/internal/platform/httpserver"
	"redink/internal/platform/logger"
	"redink/internal/platform/metrics"
	platformredis "redink/internal/platform/redis"
	sharehandler "redink/internal/share/handler"
	shareservice "redink/internal/share/service"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	files, err := content.NewFSStore(cfg.UploadsDir)
	if err != nil {
		log.Error("failed to open uploads directory", "dir", cfg.UploadsDir, "error", err)
		os.Exit(1)
	}

	var (
		documents   docstore.Store
		annotations annstore.Store
		owners      ownerstore.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		documents = docstore.NewPostgres(db)
		annotations = annstore.NewPostgres(db)
		owners = ownerstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		documents = docstore.NewInMemory()
		annotations = annstore.NewInMemory()
		owners = ownerstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	m := metrics.New()
	converter := convert.NewLibreOffice(cfg.SofficePath, "", cfg.ConvertTimeout)

	var shareCache shareservice.BundleCache
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		shareCache = shareservice.NewRedisCache(redisClient, cfg.ShareCacheTTL, log)
		log.Info("share bundle cache enabled")
	}

	ownerSvc := ownerservice.New(owners, documents, ownerservice.WithLogger(log))

	docOpts := []docservice.Option{
		docservice.WithLogger(log),
		docservice.WithMetrics(m),
		docservice.WithOwnerChecker(ownerSvc),
		docservice.WithAnnotationPurger(annotations),
	}
	annOpts := []annservice.Option{
		annservice.WithLogger(log),
		annservice.WithMetrics(m),
	}
	shareOpts := []shareservice.Option{
		shareservice.WithLogger(log),
		shareservice.WithMetrics(m),
	}
	if shareCache != nil {
		docOpts = append(docOpts, docservice.WithShareInvalidator(shareCache))
		annOpts = append(annOpts, annservice.WithShareInvalidator(shareCache))
		shareOpts = append(shareOpts, shareservice.WithCache(shareCache))
	}

	docSvc := docservice.New(documents, files, converter, docOpts...)
	annSvc := annservice.New(annotations, documents, annOpts...)
	shareSvc := shareservice.New(documents, annotations, shareOpts...)

	router := httpapi.NewRouter(log, cfg.AllowedOrigin,
		ownerhandler.New(ownerSvc, log),
		dochandler.New(docSvc, log),
		annhandler.New(annSvc, log),
		sharehandler.New(shareSvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	sweepOrphans(documents, files, log)

	go func() {
		log.Info("starting redink", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// sweepOrphans removes stored files no document references, closing the
// window left by a crash between file write and record commit.
func sweepOrphans(documents docstore.Store, files content.Store, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	names, err := documents.StoredFilenames(ctx)
	if err != nil {
		log.Warn("skipping orphan sweep", "error", err)
		return
	}
	inUse := make(map[string]bool, len(names))
	for _, name := range names {
		inUse[name] = true
	}
	removed, err := content.Sweep(ctx, files, inUse, log)
	if err != nil {
		log.Warn("orphan sweep incomplete", "removed", removed, "error", err)
		return
	}
	if removed > 0 {
		log.Info("orphan sweep removed files", "count", removed)
	}
}
