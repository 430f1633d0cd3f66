// Package config loads server configuration. Later sources override earlier
// ones: built-in defaults, the YAML file named by CONFIG_FILE, a .env file,
// then the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DevSigningKey is used when JWT_SIGNING_KEY is unset. It is refused in
// production.
const DevSigningKey = "dev-secret-key-change-in-production"

type Config struct {
	Environment     string        `yaml:"environment"`
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`

	API         API         `yaml:"api"`
	Auth        Auth        `yaml:"auth"`
	Aggregation Aggregation `yaml:"aggregation"`
}

// API is the upstream TripMatch REST API.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Auth struct {
	SigningKey string        `yaml:"signing_key"`
	Issuer     string        `yaml:"issuer"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
}

type Aggregation struct {
	Cap               int           `yaml:"cap"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	Timeout           time.Duration `yaml:"timeout"`
	EnrichConcurrency int           `yaml:"enrich_concurrency"`
	ScopeInquiries    bool          `yaml:"scope_inquiries_to_agency"`
	CurrencyLocale    string        `yaml:"currency_locale"`
	ResponseClockSkew time.Duration `yaml:"response_clock_skew"`

	// Consecutive transient user lookup failures that suspend lookups, and
	// how long they stay suspended.
	UserBreakerThreshold int           `yaml:"user_breaker_threshold"`
	UserBreakerCooldown  time.Duration `yaml:"user_breaker_cooldown"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Environment:     "development",
		Addr:            ":8080",
		LogLevel:        "info",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		API: API{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Auth: Auth{
			SigningKey: DevSigningKey,
			TokenTTL:   time.Hour,
		},
		Aggregation: Aggregation{
			Cap:               5,
			FetchTimeout:      5 * time.Second,
			MaxRetries:        1,
			RetryBackoff:      100 * time.Millisecond,
			Timeout:           15 * time.Second,
			EnrichConcurrency: 4,
			CurrencyLocale:    "es-PE",
			ResponseClockSkew: 5 * time.Minute,

			UserBreakerThreshold: 5,
			UserBreakerCooldown:  30 * time.Second,
		},
	}
}

// Load reads the configuration from every source and validates it.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return nil, err
		}
	}

	envFile := os.Getenv("DOTENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.str("ENVIRONMENT", &c.Environment)
	e.str("TRIPMATCH_ADDR", &c.Addr)
	e.str("LOG_LEVEL", &c.LogLevel)
	e.duration("REQUEST_TIMEOUT", &c.RequestTimeout)
	e.duration("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
	e.list("TRUSTED_PROXIES", &c.TrustedProxies)

	e.str("TRIPMATCH_API_BASE_URL", &c.API.BaseURL)
	e.duration("TRIPMATCH_API_TIMEOUT", &c.API.Timeout)

	e.str("JWT_SIGNING_KEY", &c.Auth.SigningKey)
	e.str("JWT_ISSUER", &c.Auth.Issuer)
	e.duration("TOKEN_TTL", &c.Auth.TokenTTL)

	e.integer("DASHBOARD_CAP", &c.Aggregation.Cap)
	e.duration("FETCH_TIMEOUT", &c.Aggregation.FetchTimeout)
	e.integer("FETCH_MAX_RETRIES", &c.Aggregation.MaxRetries)
	e.duration("FETCH_RETRY_BACKOFF", &c.Aggregation.RetryBackoff)
	e.duration("AGGREGATION_TIMEOUT", &c.Aggregation.Timeout)
	e.integer("ENRICH_CONCURRENCY", &c.Aggregation.EnrichConcurrency)
	e.boolean("SCOPE_INQUIRIES_TO_AGENCY", &c.Aggregation.ScopeInquiries)
	e.str("CURRENCY_LOCALE", &c.Aggregation.CurrencyLocale)
	e.duration("RESPONSE_CLOCK_SKEW", &c.Aggregation.ResponseClockSkew)
	e.integer("USER_BREAKER_THRESHOLD", &c.Aggregation.UserBreakerThreshold)
	e.duration("USER_BREAKER_COOLDOWN", &c.Aggregation.UserBreakerCooldown)

	return errors.Join(e.errs...)
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("TRIPMATCH_API_BASE_URL is required"))
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required"))
	}
	if c.IsProduction() && c.Auth.SigningKey == DevSigningKey {
		errs = append(errs, errors.New("JWT_SIGNING_KEY must be set in production"))
	}
	if c.Aggregation.Cap <= 0 {
		errs = append(errs, errors.New("DASHBOARD_CAP must be positive"))
	}
	if c.Aggregation.MaxRetries < 0 {
		errs = append(errs, errors.New("FETCH_MAX_RETRIES must not be negative"))
	}
	if c.Aggregation.EnrichConcurrency <= 0 {
		errs = append(errs, errors.New("ENRICH_CONCURRENCY must be positive"))
	}
	if c.Aggregation.FetchTimeout <= 0 || c.Aggregation.Timeout <= 0 {
		errs = append(errs, errors.New("fetch and aggregation timeouts must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	} else if c.RequestTimeout <= c.Aggregation.Timeout {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must exceed AGGREGATION_TIMEOUT"))
	}
	if c.Aggregation.UserBreakerThreshold <= 0 || c.Aggregation.UserBreakerCooldown <= 0 {
		errs = append(errs, errors.New("user breaker threshold and cooldown must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}
