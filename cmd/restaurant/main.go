package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/restaurant/internal/cart"
	"github.com/Skotchmaster/restaurant/internal/config"
	"github.com/Skotchmaster/restaurant/internal/httpserver"
	"github.com/Skotchmaster/restaurant/internal/jobs"
	authmw "github.com/Skotchmaster/restaurant/internal/middleware/auth"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/storage"
	pkgconfig "github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/restaurant/pkg/middleware/logging"
)

const uploadURL = "/uploads"

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	pkgconfig.WarnDevDefaults(logger, cfg.Config)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	clock := func() time.Time { return time.Now().In(loc) }

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	r := repo.New(db)

	carts := newCartStore(cfg, logger)
	images := newImageStore(cfg, logger)
	engine := newSearchEngine(cfg, r, logger)

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer.Enabled() {
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	catalog := &service.CatalogService{Repo: r, Search: engine, Images: images, Events: producer, Now: clock}
	orders := &service.OrderService{Repo: r, Cart: carts, Events: producer, Now: clock}
	bookings := &service.ReservationService{Repo: r, Events: producer, Now: clock, Phone: cfg.ReservationPhone}
	authSvc := &service.AuthService{Repo: r, AccessSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	admin := &service.AdminService{Repo: r, Events: producer, Now: clock}

	scheduler, err := jobs.New(r, producer, logger, jobs.Config{})
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	jobsCtx, stopJobs := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopJobs()
	if err := scheduler.Register(jobsCtx); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.DefaultConfig()))
	}

	deps := &httpserver.Deps{
		DB:           db,
		Menu:         &httpserver.MenuHTTP{Svc: catalog},
		Cart:         &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Store: carts}},
		Orders:       &httpserver.OrderHTTP{Svc: orders},
		Reservations: &httpserver.ReservationHTTP{Svc: bookings},
		Auth:         &httpserver.AuthHTTP{Svc: authSvc, Orders: orders},
		Admin:        &httpserver.AdminHTTP{Svc: admin, Catalog: catalog},
		Products:     &httpserver.ProductHTTP{Svc: catalog},
		AuthMW:       authmw.New(authSvc),
	}
	if local, ok := images.(*storage.LocalStore); ok {
		deps.UploadDir = local.Dir()
		deps.UploadURL = uploadURL
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	stopJobs()
	if err := scheduler.Stop(); err != nil {
		logger.Error("scheduler_shutdown_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("restaurant stopped")
}

// newCartStore uses Redis when REDIS_ADDR is set and reachable, and the
// in-process store otherwise.
func newCartStore(cfg config.ServiceConfig, l *slog.Logger) cart.Store {
	if cfg.RedisAddr == "" {
		l.Info("cart_store", "backend", "memory")
		return cart.NewMemoryStore()
	}
	rs := cart.NewRedisStore(cart.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cart.DefaultTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		l.Warn("cart_store", "backend", "memory", "reason", "redis unreachable", "error", err)
		return cart.NewMemoryStore()
	}
	l.Info("cart_store", "backend", "redis", "addr", cfg.RedisAddr)
	return rs
}

func newImageStore(cfg config.ServiceConfig, l *slog.Logger) storage.Store {
	if cfg.MinioEndpoint != "" {
		ms, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = ms.EnsureBucketExists(ctx)
			cancel()
		}
		if err == nil {
			l.Info("image_store", "backend", "minio", "bucket", cfg.MinioBucket)
			return ms
		}
		l.Warn("image_store", "backend", "local", "reason", "minio unavailable", "error", err)
	}

	ls, err := storage.NewLocalStore(cfg.UploadDir, uploadURL)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}
	l.Info("image_store", "backend", "local", "dir", cfg.UploadDir)
	return ls
}

// newSearchEngine prefers Elasticsearch and reindexes the menu on start; the
// database engine answers whenever the cluster is missing or down.
func newSearchEngine(cfg config.ServiceConfig, r *repo.GormRepo, l *slog.Logger) search.Engine {
	fallback := &search.DB{Repo: r}
	if cfg.ESURL == "" {
		l.Info("search_engine", "backend", "db")
		return fallback
	}

	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		l.Warn("search_engine", "backend", "db", "reason", "bad elasticsearch config", "error", err)
		return fallback
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := search.Ping(ctx, client); err != nil {
		l.Warn("search_engine", "backend", "db", "reason", "elasticsearch unreachable", "error", err)
		return fallback
	}

	es := &search.Elastic{Client: client, IndexName: cfg.ESIndex, Fallback: fallback}
	products, err := r.ListProducts(ctx)
	if err == nil {
		var n int
		n, err = es.Reindex(ctx, products)
		l.Info("search_reindex", "indexed", n)
	}
	if err != nil {
		l.Warn("search_reindex_error", "error", err)
	}
	l.Info("search_engine", "backend", "elasticsearch", "index", cfg.ESIndex)
	return es
}
