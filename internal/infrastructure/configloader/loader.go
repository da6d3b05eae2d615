package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"asset_gateway/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yml"

// DefaultTokenListDir holds one <chain>.json token list per chain.
const DefaultTokenListDir = "data/tokens"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
	// RateLimit is the per-client request rate (req/s) accepted by the API. 0 disables it.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// RpcClientConfig holds configuration for outbound chain clients.
type RpcClientConfig struct {
	DefaultTimeoutMs    int64   `yaml:"defaultTimeoutMs"`
	RateLimit           float64 `yaml:"rateLimit"`
	BurstLimit          int     `yaml:"burstLimit"`
	MaxRetries          int     `yaml:"maxRetries"`
	RetryDelayMs        int64   `yaml:"retryDelayMs"`
	MaxIdleConnsPerHost int     `yaml:"maxIdleConnsPerHost"`
}

// Timeout returns the per-call upstream timeout.
func (c RpcClientConfig) Timeout() time.Duration {
	return time.Duration(c.DefaultTimeoutMs) * time.Millisecond
}

// RetryDelay returns the base backoff between gateway retries.
func (c RpcClientConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"maxConcurrentRoutines"`
	MaxBatchQueries       int `yaml:"maxBatchQueries"`
}

// NetworkNodeConfig overrides a predefined network.
type NetworkNodeConfig struct {
	Identifier string `yaml:"identifier"`
	RPCURL     string `yaml:"rpcURL"`
	// AssetQueries toggles the asset query for chains that have an adapter. nil keeps the default.
	AssetQueries *bool `yaml:"assetQueries"`
}

// Config is the top-level configuration structure. It is built once by Load and treated as
// read-only afterwards.
type Config struct {
	Server       ServerConfig        `yaml:"server"`
	Logging      LoggingConfig       `yaml:"logging"`
	RpcClient    RpcClientConfig     `yaml:"rpcClient"`
	Performance  PerformanceConfig   `yaml:"performance"`
	Networks     []NetworkNodeConfig `yaml:"networks"`
	Tokens       []entity.TokenInfo  `yaml:"tokens"`
	TokenListDir string              `yaml:"tokenListDir"`
}

// Network returns the override for identifier, if any.
func (c *Config) Network(identifier entity.ChainID) (NetworkNodeConfig, bool) {
	for _, n := range c.Networks {
		if strings.EqualFold(n.Identifier, string(identifier)) {
			return n, true
		}
	}
	return NetworkNodeConfig{}, false
}

// TokensFor returns the configured tokens of a chain in file order.
func (c *Config) TokensFor(chain entity.ChainID) []entity.TokenInfo {
	var out []entity.TokenInfo
	for _, t := range c.Tokens {
		if strings.EqualFold(string(t.Chain), string(chain)) {
			out = append(out, t)
		}
	}
	return out
}

// Load reads the YAML configuration file from path (a missing file means defaults only),
// applies defaults and then environment overrides.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnv(&cfg, lookupEnv)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = int(cfg.Server.RateLimit) + 1
		logrus.Infof("Server.RateBurst not set, defaulting to %d", cfg.Server.RateBurst)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = "json"
	}

	if cfg.RpcClient.DefaultTimeoutMs <= 0 {
		cfg.RpcClient.DefaultTimeoutMs = 10000
		logrus.Infof("RpcClient.DefaultTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.DefaultTimeoutMs)
	}
	if cfg.RpcClient.RetryDelayMs <= 0 {
		cfg.RpcClient.RetryDelayMs = 2000
	}
	if cfg.RpcClient.MaxRetries < 0 {
		cfg.RpcClient.MaxRetries = 0
	}
	if cfg.RpcClient.RateLimit > 0 && cfg.RpcClient.BurstLimit <= 0 {
		cfg.RpcClient.BurstLimit = 1
	}
	if cfg.RpcClient.MaxIdleConnsPerHost <= 0 {
		cfg.RpcClient.MaxIdleConnsPerHost = 64
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
		logrus.Infof("Performance.MaxConcurrentRoutines not set, defaulting to %d", cfg.Performance.MaxConcurrentRoutines)
	}
	if cfg.Performance.MaxBatchQueries <= 0 {
		cfg.Performance.MaxBatchQueries = 20
	}

	if cfg.TokenListDir == "" {
		cfg.TokenListDir = DefaultTokenListDir
	}
}

// applyEnv applies SERVER_PORT, LOG_LEVEL and <CHAIN>_RPC_URL overrides.
func applyEnv(cfg *Config, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv("SERVER_PORT"); ok && v != "" {
		if !strings.HasPrefix(v, ":") && !strings.Contains(v, ":") {
			v = ":" + v
		}
		cfg.Server.Port = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}

	for _, id := range entity.KnownChains {
		key := strings.ToUpper(string(id)) + "_RPC_URL"
		v, ok := lookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		v = strings.TrimSpace(v)
		logrus.Infof("Overriding RPC URL for %s from %s", id, key)
		if i := cfg.networkIndex(id); i >= 0 {
			cfg.Networks[i].RPCURL = v
			continue
		}
		cfg.Networks = append(cfg.Networks, NetworkNodeConfig{Identifier: string(id), RPCURL: v})
	}
}

func (c *Config) networkIndex(id entity.ChainID) int {
	for i, n := range c.Networks {
		if strings.EqualFold(n.Identifier, string(id)) {
			return i
		}
	}
	return -1
}

func (c *Config) validate() error {
	for _, n := range c.Networks {
		if n.Identifier == "" {
			return errors.New("network entry without identifier")
		}
		if n.RPCURL != "" && !strings.HasPrefix(n.RPCURL, "http://") && !strings.HasPrefix(n.RPCURL, "https://") {
			return fmt.Errorf("network %s: rpcURL must be an http(s) URL, got %q", n.Identifier, n.RPCURL)
		}
	}
	for _, t := range c.Tokens {
		if t.Chain == "" || t.Address == "" {
			return fmt.Errorf("token entry %q needs chain and address", t.Symbol)
		}
	}
	return nil
}
