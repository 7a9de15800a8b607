package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wastewise/auth"
	"wastewise/bins"
	"wastewise/booking"
	"wastewise/config"
	"wastewise/db"
	"wastewise/logger"
	"wastewise/middleware"
	"wastewise/mq"
	"wastewise/ratelim"
	"wastewise/rdx"
	"wastewise/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type app struct {
	store   *db.Store
	redis   *redis.Client
	hub     *booking.Hub
	emitter *mq.Emitter
}

// setupRouter wires stores, services and handlers onto a fresh router.
func setupRouter(cfg config.Config, a *app, log *zap.SugaredLogger) *httprouter.Router {
	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin/3+1)
	revoker := rdx.NewTokenRevoker(a.redis)
	mw := middleware.NewAuth(cfg.JWTSecret, revoker, log)

	users := auth.NewMongoUserStore(a.store.UserCollection)
	mailer := auth.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.OTPTTL)
	authSvc := auth.NewService(users, mailer, auth.NewHasher(cfg.OTPHashKey),
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL), revoker, cfg.OTPTTL, log)

	bookingSvc := booking.NewService(booking.NewMongoStore(a.store.BookingsCollection), cfg.SlotCapacity, a.emitter, log)
	binSvc := bins.NewService(bins.NewMongoStore(a.store.BinsCollection), log)

	router := httprouter.New()
	router.GET("/health", routes.Index)
	routes.AddAuthRoutes(router, auth.NewHandler(authSvc, log), mw, rateLimiter)
	routes.AddBookingRoutes(router, booking.NewHandler(bookingSvc, booking.NewReceiptSigner(cfg.ReceiptSigningKey), users, log), a.hub, mw, rateLimiter)
	routes.AddBinRoutes(router, bins.NewHandler(binSvc, log), mw, rateLimiter)
	return router
}

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := zl.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatalw("mongo unavailable", "err", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Warnw("could not ensure indexes", "err", err)
	}
	rc, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	cancel()
	if err != nil {
		log.Fatalw("redis unavailable", "err", err)
	}

	hub := booking.NewHub(log)
	a := &app{store: store, redis: rc, hub: hub, emitter: mq.NewEmitter(rc, hub, log)}
	router := setupRouter(cfg, a, log)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go a.emitter.Run(workerCtx)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Logging(log)(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Info("closing live availability feed")
		stopWorker()
		a.hub.Close()
	})

	go func() {
		log.Infow("server listening", "addr", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("listen failed", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "err", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Warnw("mongo disconnect", "err", err)
	}
	if err := rc.Close(); err != nil {
		log.Warnw("redis close", "err", err)
	}
	log.Info("server stopped cleanly")
}
