package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	SearchMemory    = "memory"
	SearchTypesense = "typesense"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StaticConfig struct {
	Dir string
}

type StoreConfig struct {
	Driver string
	Dir    string
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty Addr disables redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	Namespace     string
	Stream        string
	StreamMaxLen  int64
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	ClaimMinIdle  time.Duration
	// MaxDeliveries caps how often a pending entry is retried before it is
	// moved to DeadLetterStream and acked.
	MaxDeliveries    int64
	DeadLetterStream string
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

type SecurityConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	LoginDelay time.Duration
}

type SearchConfig struct {
	Driver string
	URL    string
	APIKey string
}

type JobsConfig struct {
	SnapshotSchedule     string
	AlertSchedule        string
	SessionSweepSchedule string
}

type LoggingConfig struct {
	Level string
}

type OTelConfig struct {
	Endpoint    string
	ServiceName string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Static           StaticConfig
	Store            StoreConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Search           SearchConfig
	Jobs             JobsConfig
	Logging          LoggingConfig
	OTel             OTelConfig
	AllowCORSOrigins []string
}

// Load reads .env, then config.yaml, then MXS_* environment variables.
// PORT is honoured for http.port.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MXS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("http.port", "MXS_HTTP_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind port env: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreFile:
		if c.Store.Dir == "" {
			return errors.New("store.dir is required for the file store")
		}
	case StoreRedis:
		if !c.Redis.Enabled() {
			return errors.New("redis.addr is required for the redis store")
		}
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Search.Driver {
	case SearchMemory:
	case SearchTypesense:
		if c.Search.URL == "" {
			return errors.New("search.url is required for typesense")
		}
	default:
		return fmt.Errorf("unknown search driver %q", c.Search.Driver)
	}

	if c.Security.JWTSecret == "" {
		return errors.New("security.jwtsecret is required")
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("static.dir", "./dist")

	v.SetDefault("store.driver", StoreFile)
	v.SetDefault("store.dir", "./data")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.namespace", "mxs")
	v.SetDefault("redis.stream", "marketplace:events")
	v.SetDefault("redis.streammaxlen", 10000)
	v.SetDefault("redis.group", "marketplace-workers")
	v.SetDefault("redis.consumer", "worker-1")
	v.SetDefault("redis.claiminterval", "30s")
	v.SetDefault("redis.claimminidle", "1m")
	v.SetDefault("redis.maxdeliveries", 5)
	v.SetDefault("redis.deadletterstream", "marketplace:events:dead")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "mxs-snapshots")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtsecret", "change-me-in-production")
	v.SetDefault("security.tokenttl", "12h")
	v.SetDefault("security.logindelay", "1s")

	v.SetDefault("search.driver", SearchMemory)
	v.SetDefault("search.url", "")
	v.SetDefault("search.apikey", "")

	v.SetDefault("jobs.snapshotschedule", "0 3 * * *")
	v.SetDefault("jobs.alertschedule", "@hourly")
	v.SetDefault("jobs.sessionsweepschedule", "@every 15m")

	v.SetDefault("logging.level", "")

	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.servicename", "fornecedor-conecta")

	v.SetDefault("allowcorsorigins", []string{"*"})
}

// New builds a config from defaults and the given overrides only. Used by
// tests and tools that should not read the environment.
func New(overrides map[string]any) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return decode(v)
}
