package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	httpapi "todo-service/internal/api/http"
	"todo-service/internal/api/static"
	"todo-service/internal/config"
	"todo-service/internal/logger"
	"todo-service/internal/repository"
	"todo-service/internal/repository/memory"
	"todo-service/internal/repository/mongodb"
	"todo-service/internal/repository/postgres"
	taskService "todo-service/internal/service/tasks"
)

// Version версия API, отдается в приветственном ответе
const Version = "1.0.0"

// Server представляет сервер приложения: хранилище, сервис и HTTP API
type Server struct {
	HTTPServer *http.Server
	HTTPAddr   string
	Listener   net.Listener

	// Repository закрывается при shutdown
	Repository repository.TaskRepository

	Config *config.Config
	log    *slog.Logger
}

// NewServer создает новый экземпляр сервера и открывает listener
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpAddr := "0.0.0.0:" + strconv.Itoa(cfg.Server.Port)

	listener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}

	log.Info("config loaded",
		"addr", listener.Addr().String(),
		"storage", cfg.Storage.Driver,
		"static", cfg.Static.Enabled,
	)

	return &Server{
		HTTPAddr: listener.Addr().String(),
		Listener: listener,
		Config:   cfg,
		log:      log,
	}, nil
}

// Initialize инициализирует компоненты сервера (Repository → Service → Handler)
func (s *Server) Initialize(ctx context.Context) error {
	repo, err := s.openRepository(ctx)
	if err != nil {
		return err
	}
	s.Repository = repo

	svc := taskService.NewTaskService(repo, s.log)
	s.log.Info("initialized task service")

	handler := httpapi.NewHandler(svc, s.log)
	fallback := static.NewHandler(s.Config.Static, Version, s.log)
	router := httpapi.NewRouter(handler, fallback, s.Config.Gateway, s.log)

	s.HTTPServer = &http.Server{
		Handler:           router,
		ReadTimeout:       seconds(s.Config.Server.HTTPReadTimeout, 15),
		WriteTimeout:      seconds(s.Config.Server.HTTPWriteTimeout, 15),
		IdleTimeout:       seconds(s.Config.Server.HTTPIdleTimeout, 60),
		ReadHeaderTimeout: seconds(s.Config.Server.HTTPReadHeaderTimeout, 5),
		ErrorLog:          logger.NewStdLogger(s.log, slog.LevelWarn),
	}

	return nil
}

// openRepository выбирает хранилище по storage.driver
func (s *Server) openRepository(ctx context.Context) (repository.TaskRepository, error) {
	storage := s.Config.Storage
	timeout := time.Duration(storage.ConnectTimeout) * time.Second

	switch storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, storage.DSN,
			postgres.WithLogger(s.log),
			postgres.WithLogQueries(storage.LogQueries),
			postgres.WithConnectTimeout(timeout),
			postgres.WithMaxConns(int32(storage.MaxConns)),
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.log.Info("initialized postgres repository")
		return postgres.NewRepository(pool), nil

	case config.StorageMongo:
		db, err := mongodb.Connect(ctx, storage.DSN, storage.Database, timeout)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		repo, err := mongodb.NewRepository(ctx, db)
		if err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, fmt.Errorf("mongo: %w", err)
		}
		s.log.Info("initialized mongo repository", "database", storage.Database)
		return repo, nil

	default:
		s.log.Warn("using in-memory repository, data is lost on restart")
		return memory.NewRepository(), nil
	}
}

// Start запускает HTTP сервер в горутине
// Возвращает канал ошибок для отслеживания ошибок сервера
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info("http server listening", "addr", s.HTTPAddr)
		if err := s.HTTPServer.Serve(s.Listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown сервера и закрывает хранилище
func (s *Server) Shutdown() error {
	s.log.Info("starting graceful shutdown")

	shutdownTimeout := seconds(s.Config.Server.GracefulShutdownTimeout, 10)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if s.HTTPServer != nil {
		if err := s.HTTPServer.Shutdown(ctx); err != nil {
			s.log.Warn("graceful shutdown timeout, forcing stop", "error", err)
			_ = s.HTTPServer.Close()
			errs = append(errs, err)
		} else {
			s.log.Info("http server stopped gracefully")
		}
	} else {
		_ = s.Listener.Close()
	}

	if s.Repository != nil {
		if err := s.Repository.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close repository: %w", err))
		}
	}

	return errors.Join(errs...)
}

func seconds(value, def int) time.Duration {
	if value <= 0 {
		value = def
	}
	return time.Duration(value) * time.Second
}
