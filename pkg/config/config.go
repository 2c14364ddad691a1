package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendRaft   = "raft"
)

type Config struct {
	NodeID        string `yaml:"node_id"`
	Backend       string `yaml:"backend"`
	KeyPrefix     string `yaml:"key_prefix"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisDB       int    `yaml:"redis_db"`
	RaftAddr      string `yaml:"raft_addr"`
	RaftData      string `yaml:"raft_data"`
	RaftBootstrap bool   `yaml:"raft_bootstrap"`
	GRPCAddr      string `yaml:"grpc_addr"`
	HTTPAddr      string `yaml:"http_addr"`
	LogLevel      string `yaml:"log_level"`
	LogJSON       bool   `yaml:"log_json"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// then applies environment variable overrides. A .env file in the working
// directory, if present, is loaded into the environment first.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields required by the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendRaft:
		if c.NodeID == "" {
			return fmt.Errorf("NODE_ID is required for the raft backend")
		}
		if c.RaftAddr == "" {
			return fmt.Errorf("RAFT_ADDR is required for the raft backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.GRPCAddr == "" && c.HTTPAddr == "" {
		return fmt.Errorf("at least one of GRPC_ADDR or HTTP_ADDR is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "solar"
	}
	if cfg.RaftData == "" && cfg.NodeID != "" {
		cfg.RaftData = fmt.Sprintf("./solar/%s", cfg.NodeID)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides allows environment variables to override YAML config values
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("NODE_ID"); v != "" {
		cfg.NodeID = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("KEY_PREFIX"); v != "" {
		cfg.KeyPrefix = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("RAFT_ADDR"); v != "" {
		cfg.RaftAddr = v
	}
	if v := os.Getenv("RAFT_DATA"); v != "" {
		cfg.RaftData = v
	}
	if v := os.Getenv("RAFT_BOOTSTRAP"); v != "" {
		bootstrap, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RAFT_BOOTSTRAP value: %w", err)
		}
		cfg.RaftBootstrap = bootstrap
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		if asJSON, err := strconv.ParseBool(v); err == nil {
			cfg.LogJSON = asJSON
		}
	}
	return nil
}
