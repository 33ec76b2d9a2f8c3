// config реализует конфигурацию listings-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Storage  StorageConfig `yaml:"storage"`
	Admin    AdminConfig   `yaml:"admin"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Бэкенды хранилища.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// StorageConfig — выбор и настройки бэкенда хранилища.
type StorageConfig struct {
	// Backend: file | mongo.
	Backend string      `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	File    FileConfig  `yaml:"file"`
	Mongo   MongoConfig `yaml:"mongo"`
}

// FileConfig — настройки файлового бэкенда.
type FileConfig struct {
	Path string `yaml:"path" env:"LISTINGS_FILE" env-default:"data/listings.json"`
}

// MongoConfig — настройки документного бэкенда.
type MongoConfig struct {
	URL            string        `yaml:"url" env:"DATABASE_URL"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

// AdminConfig — админский гейт операций записи.
// Гейт активен только при одновременно заданных PIN и SessionSecret;
// без них операции записи публичны (режим разработки).
// Срок жизни сессии по умолчанию — 7 дней (168h).
type AdminConfig struct {
	PIN           string        `yaml:"pin" env:"ADMIN_PIN"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	SessionTTL    time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"168h"`
	CookieSecure  bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
}

// Enabled сообщает, сконфигурирован ли гейт.
func (a AdminConfig) Enabled() bool {
	return a.PIN != "" && a.SessionSecret != ""
}

// TimeoutConfig — сервисные таймауты.
type TimeoutConfig struct {
	// Общий дедлайн обработки HTTP-запроса.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
	// Дедлайн graceful shutdown.
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.File.Path == "" {
			return fmt.Errorf("storage.file.path is required for the file backend")
		}
	case BackendMongo:
		if c.Storage.Mongo.URL == "" {
			return fmt.Errorf("storage.mongo.url is required for the mongo backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q", BackendFile, BackendMongo)
	}

	if c.Admin.PIN != "" || c.Admin.SessionSecret != "" {
		if c.Admin.PIN == "" || c.Admin.SessionSecret == "" {
			return fmt.Errorf("admin.pin and admin.session_secret must be set together")
		}

		if !isNumericPIN(c.Admin.PIN) {
			return fmt.Errorf("admin.pin must be 4-12 digits")
		}

		if c.Admin.SessionTTL < time.Hour {
			return fmt.Errorf("admin.session_ttl must be at least 1h")
		}
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	if c.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("timeouts.shutdown must be > 0")
	}

	return nil
}

// isNumericPIN — PIN фиксированной разумной длины, только цифры.
func isNumericPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 12 {
		return false
	}

	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
