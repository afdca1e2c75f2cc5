package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	UploadsDir     string
}

// IsProduction reports whether the process runs with production-only hardening
// such as Secure cookies.
func (a *AppConfig) IsProduction() bool {
	return a.Env == EnvProduction
}

type DbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	JWTIssuer         string
	AdminPassword     string
	AdminPasswordHash string
	SessionTTL        time.Duration
	BearerTTL         time.Duration
	LoginRateLimit    int
}

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Receiver string
}

// Enabled is false when no SMTP host is configured.
func (m *MailConfig) Enabled() bool {
	return m.Host != ""
}

type Config struct {
	AppConfig    *AppConfig
	DbConfig     *DbConfig
	AuthConfig   *AuthConfig
	CookieConfig *CookieConfig
	MailConfig   *MailConfig
}

var (
	ErrMissingDSN       = errors.New("POSTGRES_DSN is not set")
	ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")
	ErrMissingPassword  = errors.New("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
)

// LoadConfig reads .env (if present) and the process environment once. The
// returned Config is treated as read-only for the lifetime of the process.
func LoadConfig(logger *zap.Logger, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(err))
	}
	return FromEnv(os.Getenv)
}

// LoadDbConfig reads only the database settings, for tools such as the seeder
// that never authenticate anyone.
func LoadDbConfig(logger *zap.Logger, envFiles ...string) (*DbConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(err))
	}
	return DbFromEnv(os.Getenv)
}

func DbFromEnv(getenv func(string) string) (*DbConfig, error) {
	p := parser{getenv: getenv}
	cfg := p.db()
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// FromEnv builds a Config from a lookup function so tests can supply a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	var errs error
	p := parser{getenv: getenv}

	/** app config */
	env := strings.ToLower(p.str("APP_ENV", EnvDevelopment))
	appConfig := &AppConfig{
		Port:           p.str("APP_PORT", "5001"),
		Env:            env,
		ReadTimeout:    p.duration("APP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   p.duration("APP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:    p.duration("APP_IDLE_TIMEOUT", 60*time.Second),
		AllowedOrigins: p.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		UploadsDir:     p.str("UPLOADS_DIR", "uploads"),
	}

	/** db config */
	dbConfig := p.db()

	/** auth config */
	authConfig := &AuthConfig{
		JWTSecret:         getenv("JWT_SECRET"),
		JWTIssuer:         p.str("JWT_ISSUER", "nursery-api"),
		AdminPassword:     getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH"),
		SessionTTL:        p.duration("SESSION_TTL", 10*time.Minute),
		BearerTTL:         p.duration("BEARER_TTL", 15*time.Minute),
		LoginRateLimit:    p.int("LOGIN_RATE_LIMIT", 10),
	}
	if authConfig.JWTSecret == "" {
		errs = multierr.Append(errs, ErrMissingJWTSecret)
	}
	if authConfig.AdminPassword == "" && authConfig.AdminPasswordHash == "" {
		errs = multierr.Append(errs, ErrMissingPassword)
	}

	/** cookie config */
	cookieConfig := &CookieConfig{
		Name:   "token",
		Domain: getenv("COOKIE_DOMAIN"),
		Secure: appConfig.IsProduction(),
	}

	/** mail config */
	mailConfig := &MailConfig{
		Host:     getenv("EMAIL_HOST"),
		Port:     p.int("EMAIL_PORT", 587),
		Username: getenv("EMAIL_USER"),
		Password: getenv("EMAIL_PASS"),
		Receiver: getenv("EMAIL_RECEIVER"),
	}

	if errs = multierr.Append(errs, p.err); errs != nil {
		return nil, errs
	}

	return &Config{
		AppConfig:    appConfig,
		DbConfig:     dbConfig,
		AuthConfig:   authConfig,
		CookieConfig: cookieConfig,
		MailConfig:   mailConfig,
	}, nil
}

// parser accumulates conversion errors so a bad environment reports every
// offending variable at once.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) db() *DbConfig {
	cfg := &DbConfig{
		DSN:             p.getenv("POSTGRES_DSN"),
		MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 5),
		MaxConnLifetime: p.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
	if cfg.DSN == "" {
		p.err = multierr.Append(p.err, ErrMissingDSN)
	}
	return cfg
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = multierr.Append(p.err, errors.New(key+": "+err.Error()))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.err = multierr.Append(p.err, errors.New(key+": "+err.Error()))
		return def
	}
	if d <= 0 {
		p.err = multierr.Append(p.err, errors.New(key+": must be positive"))
		return def
	}
	return d
}

func (p *parser) list(key string, def []string) []string {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
