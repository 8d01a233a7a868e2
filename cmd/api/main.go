package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/auth"
	"github.com/four2theizz0/gearz/internal/cache"
	"github.com/four2theizz0/gearz/internal/clock"
	"github.com/four2theizz0/gearz/internal/config"
	"github.com/four2theizz0/gearz/internal/images"
	"github.com/four2theizz0/gearz/internal/logger"
	"github.com/four2theizz0/gearz/internal/notify"
	"github.com/four2theizz0/gearz/internal/storage/airtable"
	transporthttp "github.com/four2theizz0/gearz/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Environment)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	store, err := airtable.NewClient(cfg.AirtablePAT, cfg.AirtableBaseID)
	if err != nil {
		log.Fatal("record store client", zap.Error(err))
	}
	productRepo := airtable.NewProductRepository(store, cfg.ProductsTable)
	holdRepo := airtable.NewHoldRepository(store, cfg.HoldsTable)
	saleRepo := airtable.NewSaleRepository(store, cfg.SalesTable)

	// Email is optional: without a Resend key the store still takes holds,
	// it just sends no confirmations.
	var dispatcher *notify.Dispatcher
	if cfg.ResendAPIKey != "" {
		sender, err := notify.NewClient(cfg.ResendAPIKey)
		if err != nil {
			log.Fatal("email client", zap.Error(err))
		}
		dispatcher, err = notify.NewDispatcher(sender, cfg.ResendFromEmail, cfg.AdminEmail)
		if err != nil {
			log.Fatal("email dispatcher", zap.Error(err))
		}
	} else {
		log.Warn("RESEND_API_KEY not set, email notifications disabled")
	}

	var uploader app.Uploader
	if cfg.ImageKitPrivateKey != "" {
		ik, err := images.NewClient(cfg.ImageKitPrivateKey, images.WithFolder(cfg.ImageKitFolder))
		if err != nil {
			log.Fatal("image client", zap.Error(err))
		}
		uploader = ik
	} else {
		log.Warn("IMAGEKIT_PRIVATE_KEY not set, image uploads disabled")
	}

	var listCache cache.Cache
	if cfg.UseCache {
		if rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Duration(cfg.CacheTTL)*time.Second, log); rc != nil {
			listCache = rc
			defer func() { _ = rc.Close() }()
		}
	}

	authenticator, err := auth.NewAuthenticator(cfg.JWTSecret, cfg.AdminLogin, cfg.AdminPassword, cfg.Environment == "production", clock.NewSystem())
	if err != nil {
		log.Fatal("authenticator", zap.Error(err))
	}

	var holdNotifier app.HoldNotifier
	if dispatcher != nil {
		holdNotifier = dispatcher
	}
	holdSvc := app.NewHoldService(holdRepo, productRepo, holdNotifier, clock.NewSystem())
	productSvc := app.NewProductService(productRepo, holdRepo, uploader, clock.NewSystem())
	saleSvc := app.NewSaleService(saleRepo, holdRepo, productRepo, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/api/products", transporthttp.HandleListProducts(productSvc, listCache))
	mux.Handle("/api/products/", transporthttp.HandleProductDetail(productSvc))
	mux.Handle("/api/purchase", transporthttp.HandleCreateHold(holdSvc, listCache))
	if dispatcher != nil {
		mux.Handle("/api/contact", transporthttp.HandleContact(dispatcher))
	} else {
		mux.Handle("/api/contact", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "contact form is not configured", http.StatusServiceUnavailable)
		}))
	}
	mux.Handle("/api/auth/login", transporthttp.HandleLogin(authenticator))
	mux.Handle("/api/auth/check", transporthttp.HandleAuthCheck(authenticator))
	mux.Handle("/api/auth/logout", transporthttp.HandleLogout(authenticator))
	mux.Handle("/api/admin/holds", transporthttp.RequireAdmin(authenticator, transporthttp.HandleAdminListHolds(holdSvc)))
	mux.Handle("/api/admin/holds/", transporthttp.RequireAdmin(authenticator, transporthttp.HandleAdminHoldActions(holdSvc, saleSvc, listCache)))
	mux.Handle("/api/admin/products", transporthttp.RequireAdmin(authenticator, transporthttp.HandleAdminCreateProduct(productSvc, listCache)))
	mux.Handle("/api/admin/products/", transporthttp.RequireAdmin(authenticator, transporthttp.HandleAdminProductActions(productSvc, listCache)))
	mux.Handle("/api/admin/sales", transporthttp.RequireAdmin(authenticator, transporthttp.HandleAdminSales(saleSvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestID(
		transporthttp.RequestLogger(
			transporthttp.CORS(cfg.CORSOrigins, mux),
			log,
		),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
