package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig is where the console listens. Host defaults to loopback; set
// SERVER_HOST to expose it beyond the machine.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points at the remote Cáritas admin API.
type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig controls browser sessions. SessionPath persists them across
// restarts; CookieSecure marks the session cookie Secure when served over TLS.
type AuthConfig struct {
	SessionPath  string `yaml:"sessionPath"`
	CookieSecure bool   `yaml:"cookieSecure"`
}

const (
	CatalogSourceConfig = "config"
	CatalogSourceMySQL  = "mysql"
)

type CatalogEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type CatalogConfig struct {
	Source   string         `yaml:"source"`
	Services []CatalogEntry `yaml:"services"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const defaultCatalog = "s1=Lavandería,s2=Transporte,s3=Comedor,s4=Trabajo Social,s5=Albergue"

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("API_BASE_URL", "http://localhost:8081/api/admin")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("AUTH_SESSION_PATH", ".caritas/sessions.json")
	v.SetDefault("AUTH_COOKIE_SECURE", false)
	v.SetDefault("CATALOG_SOURCE", CatalogSourceConfig)
	v.SetDefault("CATALOG_SERVICES", defaultCatalog)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "caritas")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "caritas")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")

	apiTimeout, err := time.ParseDuration(v.GetString("API_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing API_TIMEOUT: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	services, err := ParseCatalogEntries(v.GetString("CATALOG_SERVICES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout: apiTimeout,
		},
		Auth: AuthConfig{
			SessionPath:  v.GetString("AUTH_SESSION_PATH"),
			CookieSecure: v.GetBool("AUTH_COOKIE_SECURE"),
		},
		Catalog: CatalogConfig{
			Source:   v.GetString("CATALOG_SOURCE"),
			Services: services,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, cfg.Validate()
}

// ParseCatalogEntries reads "id=name" pairs separated by commas.
func ParseCatalogEntries(raw string) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, name, ok := strings.Cut(pair, "=")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid catalog entry %q, expected id=name", pair)
		}
		entries = append(entries, CatalogEntry{ID: id, Name: name})
	}
	return entries, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	switch c.Catalog.Source {
	case CatalogSourceConfig, CatalogSourceMySQL:
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}
