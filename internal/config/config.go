package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, BaseURL string }
type DBCfg struct{ Driver, DSN string }

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PageTTL  time.Duration
}

type LogCfg struct{ Format, Level string }

type SecurityCfg struct {
	AdminToken string // guards workspace onboarding
}

type WarmerCfg struct {
	Enabled   bool
	Every     time.Duration
	PageLimit int
}

// ClientCfg configures navctl against a running console API.
type ClientCfg struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	PageSize   int
}

type Cfg struct {
	App    AppCfg
	DB     DBCfg
	Redis  RedisCfg
	Log    LogCfg
	Sec    SecurityCfg
	Warmer WarmerCfg
	Client ClientCfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "5001")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PAGE_TTL", "5m")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("WARMER_ENABLED", true)
	v.SetDefault("WARMER_EVERY", "1m")
	v.SetDefault("WARMER_PAGE_LIMIT", 30)
	v.SetDefault("CONSOLE_API_URL", "http://localhost:5001/console/api")
	v.SetDefault("CONSOLE_TIMEOUT", "30s")
	v.SetDefault("CONSOLE_MAX_RETRIES", 3)
	v.SetDefault("CONSOLE_PAGE_SIZE", 30)
}

// Parse reads configuration from v without validating server requirements.
func Parse(v *viper.Viper) Cfg {
	setDefaults(v)
	return Cfg{
		App: AppCfg{
			Env:     v.GetString("APP_ENV"),
			Port:    v.GetString("APP_PORT"),
			BaseURL: v.GetString("APP_BASE_URL"),
		},
		DB: DBCfg{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			DSN:    v.GetString("DB_DSN"),
		},
		Redis: RedisCfg{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PageTTL:  v.GetDuration("REDIS_PAGE_TTL"),
		},
		Log: LogCfg{
			Format: v.GetString("LOG_FORMAT"),
			Level:  v.GetString("LOG_LEVEL"),
		},
		Sec: SecurityCfg{
			AdminToken: strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		},
		Warmer: WarmerCfg{
			Enabled:   v.GetBool("WARMER_ENABLED"),
			Every:     v.GetDuration("WARMER_EVERY"),
			PageLimit: v.GetInt("WARMER_PAGE_LIMIT"),
		},
		Client: ClientCfg{
			BaseURL:    strings.TrimRight(v.GetString("CONSOLE_API_URL"), "/"),
			APIKey:     strings.TrimSpace(v.GetString("CONSOLE_API_KEY")),
			Timeout:    v.GetDuration("CONSOLE_TIMEOUT"),
			MaxRetries: v.GetInt("CONSOLE_MAX_RETRIES"),
			PageSize:   v.GetInt("CONSOLE_PAGE_SIZE"),
		},
	}
}

// Validate checks the settings the API server cannot start without.
func (c Cfg) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "postgres":
		if c.DB.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required"))
		}
	case "memory":
	default:
		errs = append(errs, errors.New("STORE_DRIVER must be postgres or memory"))
	}
	if c.Redis.PageTTL < 0 {
		errs = append(errs, errors.New("REDIS_PAGE_TTL must not be negative"))
	}
	if c.Warmer.Enabled && c.Warmer.Every <= 0 {
		errs = append(errs, errors.New("WARMER_EVERY must be positive when the warmer is enabled"))
	}
	return errors.Join(errs...)
}

// LoadEnv reads .env (if present) into the process environment and returns
// the parsed configuration.
func LoadEnv() Cfg {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	return Parse(v)
}

// Load is LoadEnv plus fail-fast validation for the API server.
func Load() Cfg {
	cfg := LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}
