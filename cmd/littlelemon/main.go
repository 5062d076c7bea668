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

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/config"
	"github.com/Skotchmaster/little_lemon/internal/db"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/httpserver"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/little_lemon/internal/middleware/logging"
	"github.com/Skotchmaster/little_lemon/internal/policy"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
	"github.com/Skotchmaster/little_lemon/internal/search"
	"github.com/Skotchmaster/little_lemon/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustValid(cfg)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	r := &repo.GormRepo{DB: gdb}
	roles := &role.Resolver{Groups: r}
	catalog := &service.CatalogService{Repo: r, Events: pub}

	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		catalog.Index = search.NewMenuIndex(es, cfg.ESIndex)
		logger.Info("search_enabled", "index", cfg.ESIndex)
	}

	accounts := &service.AccountService{
		Repo:   r,
		Tokens: &auth.Issuer{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL},
		Roles:  roles,
	}

	if cfg.AdminUsername != "" {
		bootCtx := logging.IntoContext(context.Background(), logger)
		if err := accounts.EnsureManager(bootCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(csrf.Middleware(csrf.Config{
		SessionCookie: auth.TokenCookie,
		Secure:        true,
		SkipPaths:     []string{"/auth/token/login", "/auth/users"},
	}))

	httpserver.Register(e, &httpserver.Deps{
		Accounts:  accounts,
		Groups:    &service.GroupService{Repo: r},
		Catalog:   catalog,
		Cart:      &service.CartService{Repo: r},
		Orders:    &service.OrderService{Repo: r, Roles: roles, Events: pub},
		Roles:     roles,
		Policy:    policy.Default(),
		DB:        r,
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, srv.Addr)
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
		logger.Error("shutdown_error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	log.Printf("%s stopped", cfg.ServiceName)
}
