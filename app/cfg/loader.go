package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"moodlehack.db" description:"Path to the SQLite database file"`

	// HTTP server
	Host        string   `long:"host" env:"HOST" default:"0.0.0.0" description:"HTTP listen host"`
	Port        string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl     string   `long:"base-url" env:"BASE_URL" description:"Public base URL of the service (e.g., https://kb.example.com)"`
	CORSOrigins []string `long:"cors-origin" env:"CORS_ORIGINS" env-delim:"," description:"Origins allowed to call the JSON API"`

	// Authentication
	SecretKey  string        `long:"secret-key" env:"SECRET_KEY" description:"Key used to sign session and API tokens"`
	SessionTTL time.Duration `long:"session-ttl" env:"SESSION_TTL" default:"336h" description:"Lifetime of a web session"`
	TokenTTL   time.Duration `long:"token-ttl" env:"TOKEN_TTL" default:"720h" description:"Lifetime of an API token"`

	// Cache
	CacheBackend  string        `long:"cache-backend" env:"CACHE_BACKEND" default:"memory" choice:"memory" choice:"redis" choice:"dummy" description:"Cache backend for rendered markdown"`
	CacheTTL      time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"1h" description:"Lifetime of cached entries"`
	RedisAddr     string        `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
	RedisPassword string        `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
	RedisDB       int           `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`

	// Presentation
	Language   string `long:"language" env:"UI_LANGUAGE" default:"ru" choice:"ru" choice:"en" description:"Interface language"`
	SiteConfig string `long:"site-config" env:"SITE_CONFIG" default:"site.yml" description:"YAML file with site settings"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Moscow)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses args and the environment. It returns nil, nil when help was
// requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	site, err := LoadSite(raw.SiteConfig)
	if err != nil {
		return nil, err
	}

	cfg := &Cfg{
		DBPath:        raw.DBPath,
		Host:          raw.Host,
		Port:          raw.Port,
		BaseUrl:       strings.TrimRight(raw.BaseUrl, "/"),
		CORSOrigins:   raw.CORSOrigins,
		SecretKey:     raw.SecretKey,
		SessionTTL:    raw.SessionTTL,
		TokenTTL:      raw.TokenTTL,
		CacheBackend:  raw.CacheBackend,
		CacheTTL:      raw.CacheTTL,
		RedisAddr:     raw.RedisAddr,
		RedisPassword: raw.RedisPassword,
		RedisDB:       raw.RedisDB,
		Language:      raw.Language,
		SiteConfig:    raw.SiteConfig,
		Site:          site,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
