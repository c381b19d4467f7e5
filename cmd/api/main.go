package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/storefront/storefront-go/internal/config"
	"github.com/storefront/storefront-go/internal/crypto"
	"github.com/storefront/storefront-go/internal/handler"
	"github.com/storefront/storefront-go/internal/mail"
	"github.com/storefront/storefront-go/internal/media"
	"github.com/storefront/storefront-go/internal/model"
	"github.com/storefront/storefront-go/internal/repository"
	"github.com/storefront/storefront-go/internal/repository/memory"
	"github.com/storefront/storefront-go/internal/service"
)

type stores struct {
	users      service.UserRepository
	businesses service.BusinessRepository
	products   service.ProductRepository
	db         *sql.DB
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "config", cfg)

	ctx := context.Background()

	st, err := openStores(ctx, &cfg)
	if err != nil {
		slog.Error("opening store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("creating token service", "error", err)
		os.Exit(1)
	}

	images, staticDir, err := openImageStore(ctx, &cfg)
	if err != nil {
		slog.Error("opening image store", "image_store", cfg.ImageStore, "error", err)
		os.Exit(1)
	}

	sender, err := newMailSender(&cfg)
	if err != nil {
		slog.Error("creating mail sender", "error", err)
		os.Exit(1)
	}
	dispatcher := mail.NewDispatcher(sender, cfg.MailTimeout)
	notifier := mail.NewVerificationMailer(dispatcher, cfg.PublicBaseURL)

	guard := service.NewGuard(tokens, st.users, st.businesses, st.products)
	authService := service.NewAuthService(st.users, tokens, notifier)
	businessService := service.NewBusinessService(guard, st.businesses, images)
	productService := service.NewProductService(guard, st.products, st.businesses)
	uploadService := service.NewUploadService(guard, st.businesses, st.products, images, cfg.ImageTimeout)

	router := handler.NewRouter(handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, businessService),
		Products:   handler.NewProductHandler(productService),
		Businesses: handler.NewBusinessHandler(businessService),
		Uploads:    handler.NewUploadHandler(uploadService),
	}, guard, staticDir)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Warn("pending mail dropped", "error", err)
	}

	slog.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return stores{users: s.Users(), businesses: s.Businesses(), products: s.Products()}, nil
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return stores{}, err
	}

	return stores{
		users:      repository.NewUserRepository(db),
		businesses: repository.NewBusinessRepository(db),
		products:   repository.NewProductRepository(db),
		db:         db,
	}, nil
}

// openImageStore returns the image store and the directory to serve under
// /static/. Default logo and product images are always served from there.
func openImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, string, error) {
	imagesDir := filepath.Join(cfg.StaticDir, "images")
	imagesURL := cfg.PublicBaseURL + "/static/images"

	for _, name := range []string{model.DefaultLogo, model.DefaultProductImage} {
		if _, err := os.Stat(filepath.Join(imagesDir, name)); err != nil {
			slog.Warn("default image missing from static directory", "path", filepath.Join(imagesDir, name))
		}
	}

	if cfg.ImageStore == config.ImageStoreS3 {
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKey:       cfg.S3AccessKey,
			SecretKey:       cfg.S3SecretKey,
			DefaultsBaseURL: imagesURL,
			Defaults:        []string{model.DefaultLogo, model.DefaultProductImage},
		})
		return store, cfg.StaticDir, err
	}

	store, err := media.NewLocalStore(imagesDir, imagesURL)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.StaticDir, nil
}

func newMailSender(cfg *config.Config) (mail.Sender, error) {
	if !cfg.MailEnabled() {
		slog.Warn("SMTP_HOST not set, verification emails are only logged")
		return mail.NewLogSender(slog.Default()), nil
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Timeout:  cfg.MailTimeout,
	})
}
