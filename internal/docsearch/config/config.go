// Package config loads YAML configuration for the document search gateway,
// applying fixed defaults and printing a console diagnostic for the main
// default-fallbacks.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// ServiceConfig controls the HTTP listener.
type ServiceConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackingStoreConfig names the OpenSearch-compatible endpoint and the knn
// defaults applied to newly provisioned indexes.
type BackingStoreConfig struct {
	Addresses          []string `yaml:"addresses"`
	Username           string   `yaml:"username,omitempty"`
	Password           string   `yaml:"password,omitempty"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify,omitempty"`

	DefaultModelID string  `yaml:"default_model_id"`
	KnnDimension   uint32  `yaml:"knn_dimension"`
	TokenLimit     uint32  `yaml:"token_limit"`
	OverlapRate    float32 `yaml:"overlap_rate"`
	EfSearch       uint32  `yaml:"ef_search"`

	// NumberOfShards/NumberOfReplicas size every index CreateIndex provisions.
	NumberOfShards   int `yaml:"number_of_shards"`
	NumberOfReplicas int `yaml:"number_of_replicas"`

	MaxContentSize int  `yaml:"max_content_size"`
	UniqueDocID    bool `yaml:"unique_doc_id"`
}

// TokenizerConfig names the embedding/tokenizer service the gateway
// delegates text-to-vector inference to.
type TokenizerConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// RedisConfig controls the advisory result cache.
type RedisConfig struct {
	Enabled               bool          `yaml:"enabled"`
	Addr                  string        `yaml:"addr"`
	Password              string        `yaml:"password,omitempty"`
	DB                    int           `yaml:"db"`
	TLSInsecureSkipVerify bool          `yaml:"tls_insecure_skip_verify,omitempty"`
	TTL                   time.Duration `yaml:"ttl"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig controls the zerolog sink and level.
type LoggingConfig struct {
	Path  string `yaml:"path,omitempty"`
	Level string `yaml:"level"`
}

// Config is the top-level gateway configuration.
type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	BackingStore BackingStoreConfig `yaml:"backing_store"`
	Tokenizer    TokenizerConfig    `yaml:"tokenizer"`
	Redis        RedisConfig        `yaml:"redis"`
	OTel         TelemetryConfig    `yaml:"otel"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoadConfig reads filename, unmarshals it into a Config and fills in the
// fixed defaults named in the gateway's design notes. A console diagnostic
// is printed when service.port, knn_dimension, token_limit,
// max_content_size, redis.ttl or logging.level falls back to its default;
// the other defaults are applied silently.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		pterm.Error.Printf("error reading config file: %v\n", err)
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		pterm.Error.Printf("error unmarshaling config: %v\n", err)
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Service.Port <= 0 {
		cfg.Service.Port = 8088
		pterm.Info.Println("no service.port specified, using default (8088).")
	}

	if cfg.BackingStore.KnnDimension == 0 {
		cfg.BackingStore.KnnDimension = 384
		pterm.Info.Println("no backing_store.knn_dimension specified, using default (384).")
	}
	if cfg.BackingStore.TokenLimit == 0 {
		cfg.BackingStore.TokenLimit = 256
		pterm.Info.Println("no backing_store.token_limit specified, using default (256).")
	}
	if cfg.BackingStore.OverlapRate == 0 {
		cfg.BackingStore.OverlapRate = 0.1
	}
	if cfg.BackingStore.EfSearch == 0 {
		cfg.BackingStore.EfSearch = 100
	}
	if cfg.BackingStore.NumberOfShards <= 0 {
		cfg.BackingStore.NumberOfShards = 1
	}
	if cfg.BackingStore.NumberOfReplicas <= 0 {
		cfg.BackingStore.NumberOfReplicas = 1
	}
	if cfg.BackingStore.MaxContentSize <= 0 {
		cfg.BackingStore.MaxContentSize = 1024
		pterm.Info.Println("no backing_store.max_content_size specified, using default (1024).")
	}

	if cfg.Tokenizer.Timeout <= 0 {
		cfg.Tokenizer.Timeout = 30 * time.Second
	}

	if cfg.Redis.Enabled && cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
		pterm.Info.Println("no redis.ttl specified, using default (1h).")
	}

	if cfg.OTel.ServiceName == "" {
		cfg.OTel.ServiceName = "docsearch-gateway"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		pterm.Info.Println("no logging.level specified, using default (info).")
	}

	pterm.Success.Println("configuration loaded successfully.")
	return &cfg, nil
}
