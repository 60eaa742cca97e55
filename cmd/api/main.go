package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"bookshop/internal/book"
	"bookshop/internal/config"
	"bookshop/internal/event"
	"bookshop/internal/httpx"
	"bookshop/internal/metrics"
	"bookshop/internal/order"
	"bookshop/internal/redisx"
)

const repoTimeout = 3 * time.Second

func main() {
	log := logrus.New()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, log, cfg.PostgresDSN)
	defer dbPool.Close()

	m := metrics.New()

	bookRepo := book.NewPostgresRepo(dbPool, repoTimeout)
	bookService := book.NewService(bookRepo)
	bookHandler := book.NewHTTPHandler(bookService)

	var publisher order.Publisher
	var producer *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = event.NewProducer(cfg.KafkaBrokers, cfg.ServiceName, 1024, log)
		producer.Start()
		publisher = producer
		log.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer started")
	} else {
		log.Info("KAFKA_BROKERS not set, order events disabled")
	}

	var cache order.StatusCache
	if cfg.RedisAddr != "" {
		cache = redisx.NewStatusCache(redisx.New(cfg.RedisAddr))
		log.WithField("addr", cfg.RedisAddr).Info("redis status cache enabled")
	} else {
		log.Info("REDIS_ADDR not set, status cache disabled")
	}

	orderRepo := order.NewPostgresRepo(dbPool, repoTimeout)
	orderService := order.NewService(orderRepo, bookService, publisher, cache, m, log)
	orderHandler := order.NewHTTPHandler(orderService)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	router.HandleFunc("POST /api/books", bookHandler.Create)
	router.HandleFunc("GET /api/books", bookHandler.List)
	router.HandleFunc("GET /api/books/priced-above", bookHandler.ListPricedAbove)
	router.HandleFunc("GET /api/books/low-stock", bookHandler.ListLowStock)
	router.HandleFunc("GET /api/books/{id}", bookHandler.GetByID)
	router.HandleFunc("PUT /api/books/{id}", bookHandler.Update)
	router.HandleFunc("DELETE /api/books/{id}", bookHandler.Delete)
	router.HandleFunc("GET /api/books/isbn/{isbn}", bookHandler.GetByISBN)
	router.HandleFunc("GET /api/books/author/{author}", bookHandler.ListByAuthor)

	router.HandleFunc("POST /api/orders", orderHandler.Create)
	router.HandleFunc("PUT /api/orders/{orderId}/status", orderHandler.UpdateStatus)
	router.HandleFunc("GET /api/orders/{orderId}", orderHandler.GetByID)
	router.HandleFunc("GET /api/orders/customer/{customerId}", orderHandler.ListByCustomer)

	var handler http.Handler = router
	handler = httpx.MetricsMiddleware(m)(handler)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.SecurityHeadersMiddleware(cfg.EnableHSTS)(handler)
	handler = httpx.CORSMiddleware(cfg.AllowedOrigins)(handler)
	handler = httpx.RecoveryMiddleware(log)(handler)
	handler = httpx.AccessLogMiddleware(log)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err).Warn("shutdown error")
	}
	// In-flight requests are done at this point, so the inbox can
	// close and the write loop flush what is left.
	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}
}

func mustOpenDB(ctx context.Context, log *logrus.Logger, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.WithField("error", err).Fatal("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.WithFields(logrus.Fields{
			"dsn":   redactDSN(dsn),
			"error": err,
		}).Fatal("cannot ping database")
	}
	log.Info("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
