package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	EnvAPIURL      = "MSTODO_API_URL"
	EnvAPIPrefix   = "MSTODO_API_PREFIX"
	EnvAccessToken = "MSTODO_ACCESS_TOKEN"
	EnvLogLevel    = "MSTODO_LOG_LEVEL"
	EnvHTTPTimeout = "MSTODO_HTTP_TIMEOUT"

	DefaultAPIURL      = "https://graph.microsoft.com/v1.0"
	DefaultAPIPrefix   = "me"
	DefaultLogLevel    = "info"
	DefaultHTTPTimeout = 10 * time.Second
)

var ErrAccessTokenMissing = errors.New(EnvAccessToken + " is not set")

type Config struct {
	APIURL      string
	APIPrefix   string
	AccessToken string
	LogLevel    string
	HTTPTimeout time.Duration
}

// Load reads the environment after applying the given .env files, or
// ".env" when none are given. Missing files are ignored and variables
// already present in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:      getenv(EnvAPIURL, DefaultAPIURL),
		APIPrefix:   getenv(EnvAPIPrefix, DefaultAPIPrefix),
		AccessToken: os.Getenv(EnvAccessToken),
		LogLevel:    getenv(EnvLogLevel, DefaultLogLevel),
		HTTPTimeout: DefaultHTTPTimeout,
	}
	if raw := os.Getenv(EnvHTTPTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s: invalid url %q", EnvAPIURL, c.APIURL))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", EnvHTTPTimeout))
	}
	if c.AccessToken == "" {
		errs = append(errs, ErrAccessTokenMissing)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, or info when it does not parse.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
