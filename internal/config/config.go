package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"cloudquote/internal/domain"
)

// Config holds everything the process reads from the environment. All keys
// carry the CLOUDQUOTE_ prefix, e.g. CLOUDQUOTE_SERVER_PORT.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	DashScope DashScopeConfig
	AliCloud  AliCloudConfig
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string for sqlx/pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type StorageConfig struct {
	Bucket   string
	Region   string
	Endpoint string
}

type DashScopeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type AliCloudConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	Endpoint        string
	Timeout         time.Duration
}

type PipelineConfig struct {
	// Category is the product category this run quotes. Records classified
	// into any other category are skipped.
	Category string
	// Workers bounds pipeline concurrency. 1 means sequential.
	Workers int
	// ChargeType and Period shape the price queries.
	ChargeType   string
	PriceUnit    string
	Period       int
	SystemDiskGB int
	// FailFast aborts resolution on the first remote error instead of
	// treating it as an empty result and moving to the next strategy.
	FailFast bool
	// CacheInterpretations enables the in-memory interpretation cache.
	CacheInterpretations bool
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLOUDQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			Mode:            v.GetString("server.mode"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Storage: StorageConfig{
			Bucket:   v.GetString("storage.bucket"),
			Region:   v.GetString("storage.region"),
			Endpoint: v.GetString("storage.endpoint"),
		},
		DashScope: DashScopeConfig{
			APIKey:  v.GetString("dashscope.api_key"),
			BaseURL: v.GetString("dashscope.base_url"),
			Model:   v.GetString("dashscope.model"),
			Timeout: v.GetDuration("dashscope.timeout"),
		},
		AliCloud: AliCloudConfig{
			AccessKeyID:     v.GetString("alicloud.access_key_id"),
			AccessKeySecret: v.GetString("alicloud.access_key_secret"),
			Region:          v.GetString("alicloud.region"),
			Endpoint:        v.GetString("alicloud.endpoint"),
			Timeout:         v.GetDuration("alicloud.timeout"),
		},
		Pipeline: PipelineConfig{
			Category:             v.GetString("pipeline.category"),
			Workers:              v.GetInt("pipeline.workers"),
			ChargeType:           v.GetString("pipeline.charge_type"),
			PriceUnit:            v.GetString("pipeline.price_unit"),
			Period:               v.GetInt("pipeline.period"),
			SystemDiskGB:         v.GetInt("pipeline.system_disk_gb"),
			FailFast:             v.GetBool("pipeline.fail_fast"),
			CacheInterpretations: v.GetBool("pipeline.cache_interpretations"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cloudquote")
	v.SetDefault("db.name", "cloudquote")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("dashscope.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("dashscope.model", "qwen-max")
	v.SetDefault("dashscope.timeout", "60s")

	v.SetDefault("alicloud.region", "cn-beijing")
	v.SetDefault("alicloud.endpoint", "https://ecs.aliyuncs.com")
	v.SetDefault("alicloud.timeout", "30s")

	v.SetDefault("pipeline.category", string(domain.CategoryECS))
	v.SetDefault("pipeline.workers", 1)
	v.SetDefault("pipeline.charge_type", string(domain.ChargePrePaid))
	v.SetDefault("pipeline.price_unit", string(domain.UnitMonth))
	v.SetDefault("pipeline.period", 1)
	v.SetDefault("pipeline.system_disk_gb", 40)
	v.SetDefault("pipeline.fail_fast", false)
	v.SetDefault("pipeline.cache_interpretations", true)
}

// bindEnvs lists every key explicitly so AutomaticEnv never misses one
// that has no default.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.shutdown_timeout",
		"log.level", "log.format",
		"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode",
		"storage.bucket", "storage.region", "storage.endpoint",
		"dashscope.api_key", "dashscope.base_url", "dashscope.model", "dashscope.timeout",
		"alicloud.access_key_id", "alicloud.access_key_secret",
		"alicloud.region", "alicloud.endpoint", "alicloud.timeout",
		"pipeline.category", "pipeline.workers", "pipeline.charge_type",
		"pipeline.price_unit", "pipeline.period", "pipeline.system_disk_gb",
		"pipeline.fail_fast", "pipeline.cache_interpretations",
	} {
		_ = v.BindEnv(key)
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if !domain.ChargeType(c.Pipeline.ChargeType).Valid() {
		return fmt.Errorf("config: invalid charge type %q", c.Pipeline.ChargeType)
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.Period < 1 {
		return fmt.Errorf("config: period must be at least 1, got %d", c.Pipeline.Period)
	}
	return nil
}
