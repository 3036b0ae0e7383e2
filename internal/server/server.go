package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/phonebook-api/apiserver/config"
	"github.com/phonebook-api/apiserver/internal/db"
	"github.com/phonebook-api/apiserver/internal/handlers"
	"github.com/phonebook-api/apiserver/internal/lock"
	"github.com/phonebook-api/apiserver/internal/mq"
	"github.com/phonebook-api/apiserver/internal/services"
	"github.com/phonebook-api/apiserver/internal/storage"
	"github.com/phonebook-api/apiserver/internal/store"
	"go.uber.org/zap"
)

const lockKeyPrefix = "phonebook:lock:"

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
	redis      *redis.Client
	logger     *zap.Logger
}

// New constructs a Server with basic middleware and defaults. The message
// queue, object storage and Redis are only connected when configured.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *Server, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{logger: logger}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	s.db, err = db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	locker, err := s.newLocker(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	s.queue, err = mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}
	var publisher services.EventPublisher
	if s.queue != nil {
		publisher = s.queue
	}

	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	var archiver services.Archiver
	if objects != nil {
		archiver = objects
	}

	accountRepo := store.NewAccountRepository(s.db)
	contactRepo := store.NewContactRepository(s.db)

	resolver := services.NewResolver(accountRepo)
	authorizer := services.NewAuthorizer(cfg.Auth.TokenHashCost)
	notifier := services.NewNotifier(publisher, cfg.MQ.EventsChannel, logger)

	accountService := services.NewAccountService(accountRepo, contactRepo, resolver, authorizer, services.AccountServiceOptions{
		Locker:          locker,
		Archiver:        archiver,
		Notifier:        notifier,
		Logger:          logger,
		ConcealNotFound: cfg.Auth.ConcealNotFound,
	})
	guard := services.NewGuard(resolver, authorizer, cfg.Auth.ConcealNotFound)
	contactService := services.NewContactService(contactRepo, guard, notifier, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		handlers.RequestLogger(logger),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/users", func(r chi.Router) {
		handlers.AccountRouter(r, accountService, contactService, handlers.RouterOptions{
			Logger:          logger,
			ConcealNotFound: cfg.Auth.ConcealNotFound,
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("mq_backend", cfg.MQ.Backend),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("redis_lock", s.redis != nil),
	)
	return s, nil
}

func (s *Server) newLocker(ctx context.Context, cfg config.RedisConfig) (lock.Locker, error) {
	if cfg.Addr == "" {
		return lock.NewLocalLocker(), nil
	}

	client, err := lock.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.redis = client
	return lock.NewRedisLocker(client, lockKeyPrefix, time.Duration(cfg.RegisterLockSeconds)*time.Second), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done and releases every backend connection.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			s.logger.Warn("close message queue", zap.Error(err))
		}
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
