package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/db"
	"github.com/exercise-tracker/apiserver/internal/handlers"
	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/observability"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// Options tune how the server is assembled.
type Options struct {
	// InMemory swaps MongoDB for process-local repositories.
	InMemory bool
	Logger   *slog.Logger
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	events     *mq.MQ
	logger     *slog.Logger
}

// New connects to the configured collaborators and builds the router.
// A store connection failure is returned as an error.
func New(ctx context.Context, cfg config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		userRepo     services.UserRepository
		exerciseRepo services.ExerciseRepository
		mongoClient  *mongo.Client
		ping         handlers.Pinger
	)
	if opts.InMemory {
		users := store.NewInMemoryUserRepository()
		userRepo = users
		exerciseRepo = store.NewInMemoryExerciseRepository(users)
		logger.Warn("using in-memory repositories; data is lost on exit")
	} else {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		client, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		database := db.Database(client, cfg)
		userRepo = store.NewUserRepository(database)
		exerciseRepo = store.NewExerciseRepository(database)
		mongoClient = client
		ping = func(ctx context.Context) error { return db.Ping(ctx, client) }
	}

	events, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		disconnect(mongoClient)
		return nil, fmt.Errorf("open event broker: %w", err)
	}

	serviceOpts := []services.Option{services.WithLogger(logger)}
	if events != nil {
		serviceOpts = append(serviceOpts, services.WithEvents(events))
	}
	userService := services.NewUserService(userRepo, serviceOpts...)
	exerciseService := services.NewExerciseService(exerciseRepo, userRepo, serviceOpts...)

	assets, err := assetConfig(ctx, cfg)
	if err != nil {
		disconnect(mongoClient)
		closeEvents(events)
		return nil, fmt.Errorf("open asset storage: %w", err)
	}

	router := NewRouter(RouterConfig{
		Users:     userService,
		Exercises: exerciseService,
		Assets:    assets,
		Ping:      ping,
		Logger:    logger,
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		mongo:      mongoClient,
		events:     events,
		logger:     logger,
	}, nil
}

// RouterConfig holds everything NewRouter wires into routes.
type RouterConfig struct {
	Users     *services.UserService
	Exercises *services.ExerciseService
	Assets    handlers.AssetConfig
	Ping      handlers.Pinger
	Logger    *slog.Logger
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(rc RouterConfig) *chi.Mux {
	logger := rc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		handlers.RequestLogger(logger),
		handlers.CORS,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz(rc.Ping))
	router.Method(http.MethodGet, "/metrics", observability.Handler())
	router.Route("/api/users", func(r chi.Router) {
		handlers.UserRouter(r, rc.Users, rc.Exercises, logger)
	})
	router.Route("/api/exercises", func(r chi.Router) {
		handlers.ExerciseRouter(r, rc.Exercises, logger)
	})
	if rc.Assets.Index != nil && rc.Assets.Files != nil {
		handlers.AssetRouter(router, rc.Assets, logger)
	}
	return router
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
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the store and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	closeEvents(s.events)
	disconnect(s.mongo)
	return err
}

// assetConfig maps the storage backend to the landing page and public
// files. Locally the page comes from ViewsDir and files from StaticDir;
// buckets use the layout written by the assets sync command.
func assetConfig(ctx context.Context, cfg config.Config) (handlers.AssetConfig, error) {
	if cfg.Storage.Backend == "" || cfg.Storage.Backend == "local" {
		return handlers.AssetConfig{
			Index:    storage.NewStorage(storage.NewLocalDir(cfg.ViewsDir)),
			IndexKey: storage.IndexKey,
			Files:    storage.NewStorage(storage.NewLocalDir(cfg.StaticDir)),
		}, nil
	}

	bucket, err := storage.Open(ctx, cfg.Storage, filepath.Clean(cfg.StaticDir))
	if err != nil {
		return handlers.AssetConfig{}, err
	}
	return handlers.AssetConfig{
		Index:    bucket,
		IndexKey: storage.IndexKey,
		Files:    bucket,
		Prefix:   storage.PublicPrefix,
	}, nil
}

func disconnect(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

func closeEvents(events *mq.MQ) {
	if events != nil {
		_ = events.Close()
	}
}
