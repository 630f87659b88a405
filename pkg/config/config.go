package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string   `envconfig:"WARUNGPOS_APP_ENV" required:"true"`
	Port         string   `envconfig:"WARUNGPOS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"WARUNGPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"WARUNGPOS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"WARUNGPOS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WARUNGPOS_DB_DSN"`
	Driver string `envconfig:"WARUNGPOS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WARUNGPOS_DB_HOST"`
	Port     int    `envconfig:"WARUNGPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"WARUNGPOS_DB_USER"`
	Password string `envconfig:"WARUNGPOS_DB_PASSWORD"`
	Name     string `envconfig:"WARUNGPOS_DB_NAME"`
	SSLMode  string `envconfig:"WARUNGPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WARUNGPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WARUNGPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WARUNGPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WARUNGPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles the DSN from discrete parts when it was not set directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either WARUNGPOS_DB_DSN or host/user/name must be set")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WARUNGPOS_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"WARUNGPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WARUNGPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WARUNGPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WARUNGPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WARUNGPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WARUNGPOS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WARUNGPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WARUNGPOS_JWT_EXPIRATION_MINUTES" default:"480"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WARUNGPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WARUNGPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WARUNGPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WARUNGPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WARUNGPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"WARUNGPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"WARUNGPOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"WARUNGPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WARUNGPOS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"WARUNGPOS_GCP_PROJECT_ID"`
	CredentialsFile string `envconfig:"WARUNGPOS_GCP_CREDENTIALS_FILE"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"WARUNGPOS_PUBSUB_DOMAIN_TOPIC"`
	DomainSubscription string `envconfig:"WARUNGPOS_PUBSUB_DOMAIN_SUB"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"WARUNGPOS_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"WARUNGPOS_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"WARUNGPOS_OUTBOX_MAX_ATTEMPTS" default:"10"`
	PublishTimeout time.Duration `envconfig:"WARUNGPOS_OUTBOX_PUBLISH_TIMEOUT" default:"15s"`
}
