package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Media        MediaConfig
	Mail         MailConfig
	Marketplace  MarketplaceConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAMPUSEATS_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSEATS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSEATS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSEATS_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list for the student web client.
	CORSOrigins string `envconfig:"CAMPUSEATS_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits CORSOrigins into trimmed, non-empty entries.
func (a AppConfig) AllowedOrigins() []string {
	out := []string{}
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSEATS_DB_DSN"`
	Driver string `envconfig:"CAMPUSEATS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSEATS_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSEATS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSEATS_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSEATS_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSEATS_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSEATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSEATS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSEATS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSEATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSEATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL            string        `envconfig:"CAMPUSEATS_REDIS_URL"`
	Address        string        `envconfig:"CAMPUSEATS_REDIS_ADDR"`
	Password       string        `envconfig:"CAMPUSEATS_REDIS_PASSWORD"`
	DB             int           `envconfig:"CAMPUSEATS_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"CAMPUSEATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"CAMPUSEATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"CAMPUSEATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"CAMPUSEATS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"CAMPUSEATS_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"CAMPUSEATS_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CAMPUSEATS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAMPUSEATS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CAMPUSEATS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// MediaConfig points at the S3-compatible bucket holding logos and product images.
type MediaConfig struct {
	Endpoint      string `envconfig:"CAMPUSEATS_MEDIA_ENDPOINT"`
	AccessKey     string `envconfig:"CAMPUSEATS_MEDIA_ACCESS_KEY"`
	SecretKey     string `envconfig:"CAMPUSEATS_MEDIA_SECRET_KEY"`
	Bucket        string `envconfig:"CAMPUSEATS_MEDIA_BUCKET" default:"unieats-marketplace-images"`
	UseSSL        bool   `envconfig:"CAMPUSEATS_MEDIA_USE_SSL" default:"false"`
	PublicBaseURL string `envconfig:"CAMPUSEATS_MEDIA_PUBLIC_BASE_URL"`
	MaxUploadMB   int    `envconfig:"CAMPUSEATS_MAX_UPLOAD_MB" default:"5"`
}

func (m MediaConfig) Enabled() bool {
	return strings.TrimSpace(m.Endpoint) != ""
}

// MaxUploadBytes is the multipart limit applied by upload handlers.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type MailConfig struct {
	Enabled  bool   `envconfig:"CAMPUSEATS_MAIL_ENABLED" default:"false"`
	Host     string `envconfig:"CAMPUSEATS_SMTP_HOST"`
	Port     int    `envconfig:"CAMPUSEATS_SMTP_PORT" default:"587"`
	Username string `envconfig:"CAMPUSEATS_SMTP_USERNAME"`
	Password string `envconfig:"CAMPUSEATS_SMTP_PASSWORD"`
	From     string `envconfig:"CAMPUSEATS_MAIL_FROM" default:"no-reply@unieats.local"`
}

// MarketplaceConfig tunes the public listings.
type MarketplaceConfig struct {
	PopularLimit int `envconfig:"CAMPUSEATS_POPULAR_LIMIT" default:"20"`
	MaxPageSize  int `envconfig:"CAMPUSEATS_MAX_PAGE_SIZE" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSEATS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
