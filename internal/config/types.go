package config

import (
	"fmt"
	"strings"
)

// Драйверы хранилища
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// ConfigLogger настройки логирования
type ConfigLogger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json или text
}

// ConfigServer настройки сервера
type ConfigServer struct {
	Port                    int `mapstructure:"port"`
	HTTPReadTimeout         int `mapstructure:"http_read_timeout"`
	HTTPWriteTimeout        int `mapstructure:"http_write_timeout"`
	HTTPIdleTimeout         int `mapstructure:"http_idle_timeout"`
	HTTPReadHeaderTimeout   int `mapstructure:"http_read_header_timeout"`
	GracefulShutdownTimeout int `mapstructure:"graceful_shutdown_timeout"`
}

// ConfigGateway настройки HTTP слоя: CORS и rate limiting
type ConfigGateway struct {
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`
	CORSMaxAge         int    `mapstructure:"cors_max_age"`
	RateLimitRPS       int    `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

// ConfigStorage настройки хранилища задач
type ConfigStorage struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	Database       string `mapstructure:"database"` // только для mongo
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	MaxConns       int    `mapstructure:"max_conns"`
	LogQueries     bool   `mapstructure:"log_queries"`
}

// ConfigStatic настройки раздачи собранного клиента
type ConfigStatic struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Config основная структура конфигурации
type Config struct {
	Logger  *ConfigLogger  `mapstructure:"logger"`
	Server  *ConfigServer  `mapstructure:"server"`
	Gateway *ConfigGateway `mapstructure:"gateway"`
	Storage *ConfigStorage `mapstructure:"storage"`
	Static  *ConfigStatic  `mapstructure:"static"`
}

// Validate заполняет отсутствующие секции значениями по умолчанию
// и проверяет настройки хранилища
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = &ConfigLogger{}
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}

	if c.Server == nil {
		c.Server = &ConfigServer{}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: invalid port %d", c.Server.Port)
	}

	if c.Gateway == nil {
		c.Gateway = &ConfigGateway{}
	}

	if c.Storage == nil {
		c.Storage = &ConfigStorage{}
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.Storage.ConnectTimeout <= 0 {
		c.Storage.ConnectTimeout = 5
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
	case StorageMongo:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
		}
		if c.Storage.Database == "" {
			c.Storage.Database = "todos"
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}

	if c.Static == nil {
		c.Static = &ConfigStatic{}
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "web/dist"
	}

	return nil
}
