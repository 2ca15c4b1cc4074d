package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"todo-service/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Коды ошибок PostgreSQL
const (
	invalidTextRepresentation = "22P02"
	checkViolation            = "23514"
)

// options настройки пула соединений
type options struct {
	maxConns       int32
	minConns       int32
	maxLifetime    time.Duration
	maxIdleTime    time.Duration
	healthCheck    time.Duration
	connectTimeout time.Duration
	logger         *slog.Logger
	logQueries     bool
}

// Option функциональная опция пула соединений
type Option func(*options)

// WithLogger задает логгер для трассировки запросов
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogQueries включает логирование SQL запросов
func WithLogQueries(enable bool) Option {
	return func(o *options) {
		o.logQueries = enable
	}
}

// WithConnectTimeout задает таймаут подключения
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithMaxConns задает максимальное количество соединений
func WithMaxConns(max int32) Option {
	return func(o *options) {
		if max > 0 {
			o.maxConns = max
		}
	}
}

// Connect создает пул соединений и проверяет подключение
func Connect(ctx context.Context, dsn string, opts ...Option) (*pgxpool.Pool, error) {
	o := &options{
		maxConns:       25,
		minConns:       1,
		maxLifetime:    time.Hour,
		maxIdleTime:    30 * time.Minute,
		healthCheck:    time.Minute,
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = o.maxConns
	poolConfig.MinConns = o.minConns
	poolConfig.MaxConnLifetime = o.maxLifetime
	poolConfig.MaxConnIdleTime = o.maxIdleTime
	poolConfig.HealthCheckPeriod = o.healthCheck

	if o.logQueries {
		poolConfig.ConnConfig.Tracer = NewLoggingQueryTracer(o.logger)
	}

	ctx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// handlePgError переводит ошибки pgx в ошибки репозитория
func handlePgError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrTaskNotFound
	}

	// Отмену запроса клиентом не считаем отказом хранилища
	if errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case invalidTextRepresentation:
			return repository.ErrTaskNotFound
		case checkViolation:
			return fmt.Errorf("constraint %s: %w", pgErr.ConstraintName, err)
		}
	}

	return fmt.Errorf("%w: %w", repository.ErrStorageUnavailable, err)
}

// LoggingQueryTracer логирует SQL запросы через slog на уровне Debug
type LoggingQueryTracer struct {
	logger *slog.Logger
}

var _ pgx.QueryTracer = (*LoggingQueryTracer)(nil)

// NewLoggingQueryTracer создает трассировщик запросов
func NewLoggingQueryTracer(logger *slog.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{logger: logger}
}

var replaceSpaces = regexp.MustCompile(`\s+`)

// prettyPrintSQL схлопывает пробелы и переводы строк
func prettyPrintSQL(sql string) string {
	return strings.TrimSpace(replaceSpaces.ReplaceAllString(sql, " "))
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	l.logger.DebugContext(ctx, "query start",
		slog.String("sql", prettyPrintSQL(data.SQL)),
		slog.Int("args", len(data.Args)),
	)
	return ctx
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		l.logger.ErrorContext(ctx, "query end",
			slog.String("error", data.Err.Error()),
			slog.String("command_tag", data.CommandTag.String()),
		)
		return
	}

	l.logger.DebugContext(ctx, "query end",
		slog.String("command_tag", data.CommandTag.String()),
	)
}
