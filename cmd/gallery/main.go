//	@title			Memoria Gallery API
//	@version		1.0
//	@description	Shared media gallery over S3-compatible object storage with a Postgres caption table.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/memoria/gallery/internal/api"
	"github.com/memoria/gallery/internal/caption"
	"github.com/memoria/gallery/internal/config"
	"github.com/memoria/gallery/internal/db"
	"github.com/memoria/gallery/internal/gallery"
	appMiddleware "github.com/memoria/gallery/internal/middleware"
	"github.com/memoria/gallery/internal/status"
	"github.com/memoria/gallery/internal/storage"
	"github.com/memoria/gallery/web"

	_ "github.com/memoria/gallery/docs/swagger"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration invalid: %v", err)
	}

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: collaborators → synchronizer → handler
	captions := caption.NewRepository(pool)
	cache := gallery.NewCache(cfg.SnapshotPath)
	reporter := status.NewReporter()
	svc := gallery.NewService(store, captions, cache, reporter,
		cfg.GalleryFolder, cfg.ListLimit, cfg.CaptionsEnabled)
	handler := api.NewHandler(svc, reporter)

	reporter.Set("Connected. Loading…", false)

	// Warm the snapshot so the first page paint has data even if the browser
	// never triggers a refresh. Failure here is not fatal; the UI can retry.
	refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := svc.Refresh(refreshCtx); err != nil {
		log.Printf("initial refresh failed: %v", err)
	}
	cancelRefresh()

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Mount("/api/v1", api.NewRouter(handler))

	// Embedded browser UI
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("gallery UI at http://localhost:%s/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
