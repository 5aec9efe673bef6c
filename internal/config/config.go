// Package config reads the settings for the server and the command line
// tools from the environment and an optional configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reckon-ledger/reckon/internal/importer"
	"github.com/reckon-ledger/reckon/internal/link"
	"github.com/reckon-ledger/reckon/internal/recurrence"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var (
	ErrAPIURLMissing = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid = errors.New("environment variable API_URL must be a valid URL")
)

// FileVariable names the environment variable pointing to a configuration file.
const FileVariable = "RECKON_CONFIG"

type Config struct {
	APIURL           string  `mapstructure:"api_url"`
	GinMode          string  `mapstructure:"gin_mode"`
	LogFormat        string  `mapstructure:"log_format"`
	LogLevel         string  `mapstructure:"log_level"`
	CORSAllowOrigins string  `mapstructure:"cors_allow_origins"` // Space separated
	EnablePprof      bool    `mapstructure:"enable_pprof"`
	DBPath           string  `mapstructure:"db_path"`
	DefaultCurrency  string  `mapstructure:"default_currency"`
	MaxIterations    int     `mapstructure:"projection_max_iterations"`
	BalanceTolerance float64 `mapstructure:"balance_tolerance"`
	ZeroEpsilon      float64 `mapstructure:"zero_epsilon"`
}

var defaults = map[string]any{
	"api_url":                   "",
	"gin_mode":                  gin.ReleaseMode,
	"log_format":                "",
	"log_level":                 "",
	"cors_allow_origins":        "",
	"enable_pprof":              false,
	"db_path":                   "data/reckon.db",
	"default_currency":          "EUR",
	"projection_max_iterations": recurrence.DefaultMaxIterations,
	"balance_tolerance":         link.DefaultTolerance.InexactFloat64(),
	"zero_epsilon":              importer.DefaultEpsilon.InexactFloat64(),
}

// Load reads the configuration. Environment variables take precedence
// over the file named in RECKON_CONFIG.
func Load() (Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path, ok := os.LookupEnv(FileVariable); ok && path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	c.DefaultCurrency = strings.ToUpper(strings.TrimSpace(c.DefaultCurrency))
	return c, nil
}

// URL returns the parsed base URL of the API.
func (c Config) URL() (*url.URL, error) {
	if c.APIURL == "" {
		return nil, ErrAPIURLMissing
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAPIURLInvalid, err)
	}

	return u, nil
}

// AllowOrigins returns the origins allowed for CORS requests.
func (c Config) AllowOrigins() []string {
	return strings.Fields(c.CORSAllowOrigins)
}

// Projection returns the options for schedule projections.
func (c Config) Projection() recurrence.Options {
	return recurrence.Options{MaxIterations: c.MaxIterations}
}

// Tolerance returns the tolerance for balancing link groups.
func (c Config) Tolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.BalanceTolerance)
}

// Classify returns the options for the conflict classifier.
func (c Config) Classify() importer.ClassifyOptions {
	return importer.ClassifyOptions{
		Epsilon:  decimal.NewFromFloat(c.ZeroEpsilon),
		Currency: c.DefaultCurrency,
	}
}

// Logger configures the global logger.
//
// The format can be explicitly set. If it is not set, it defaults to
// human readable for development and JSON for release.
func (c Config) Logger(out io.Writer) {
	if (c.LogFormat == "" && gin.IsDebugging()) || c.LogFormat == "human" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level := zerolog.InfoLevel
	if gin.IsDebugging() {
		level = zerolog.DebugLevel
	}

	var levelErr error
	if c.LogLevel != "" {
		level, levelErr = zerolog.ParseLevel(c.LogLevel)
		if levelErr != nil {
			level = zerolog.InfoLevel
		}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(out).With().Timestamp().Logger()

	if levelErr != nil {
		log.Warn().Err(levelErr).Str("level", c.LogLevel).Msg("ignoring LOG_LEVEL")
	}
}
