package config

import (
	"fmt"
	"net/url"
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
	Moderation    ModerationConfig
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
	Env          string `envconfig:"REVIEWHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"REVIEWHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REVIEWHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REVIEWHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REVIEWHUB_DB_DSN"`
	Driver string `envconfig:"REVIEWHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REVIEWHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"REVIEWHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REVIEWHUB_DB_USER"`
	LegacyPassword string `envconfig:"REVIEWHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"REVIEWHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"REVIEWHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REVIEWHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REVIEWHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REVIEWHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REVIEWHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REVIEWHUB_REDIS_URL"`
	Address      string        `envconfig:"REVIEWHUB_REDIS_ADDR"`
	Password     string        `envconfig:"REVIEWHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"REVIEWHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REVIEWHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REVIEWHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REVIEWHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REVIEWHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REVIEWHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REVIEWHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REVIEWHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"REVIEWHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REVIEWHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REVIEWHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REVIEWHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REVIEWHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REVIEWHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginNameLimit    int           `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_LOGIN_NAME_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterNameLimit int           `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_REGISTER_NAME_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"REVIEWHUB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"REVIEWHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"REVIEWHUB_AUTO_MIGRATE" default:"false"`
}

// ModerationConfig tunes review screening thresholds.
type ModerationConfig struct {
	BannedWords     []string `envconfig:"REVIEWHUB_BANNED_WORDS" default:"badword1,badword2,offensive"`
	LowRatingMax    int      `envconfig:"REVIEWHUB_LOW_RATING_MAX" default:"2"`
	TrendWindowDays int      `envconfig:"REVIEWHUB_TREND_WINDOW_DAYS" default:"30"`
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
