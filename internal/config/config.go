package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Placeholder values shipped in example configs. A store configured with
// either is treated as not configured.
const (
	PlaceholderStoreURL = "YOUR_STORE_URL"
	PlaceholderStoreKey = "YOUR_STORE_KEY"
)

// Environment variables that override the YAML file.
const (
	EnvStoreURL = "DAILYBRIEF_STORE_URL"
	EnvStoreKey = "DAILYBRIEF_STORE_KEY"
	EnvPort     = "DAILYBRIEF_PORT"
)

const defaultDBName = "dailybrief.db"

type Config struct {
	Store   Store   `yaml:"store"`
	Server  Server  `yaml:"server"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

type Store struct {
	URL           string `yaml:"url"`
	AccessKey     string `yaml:"access_key"`
	WriteFallback bool   `yaml:"write_fallback"`
}

type Server struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	FeedSize int    `yaml:"feed_size"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for dailybrief.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "dailybrief")
}

// DataDir returns the XDG data directory for dailybrief.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "dailybrief")
}

// LoadDotEnv reads a .env file from the working directory into the process
// environment. A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/dailybrief/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'dailybrief init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file, then applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded default config with environment overrides,
// for running without a config file.
func Default() (*Config, error) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Store:   Store{WriteFallback: true},
		Server:  Server{Host: "127.0.0.1", Port: 8000, FeedSize: 20},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStoreURL); v != "" {
		c.Store.URL = v
	}
	if v := os.Getenv(EnvStoreKey); v != "" {
		c.Store.AccessKey = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// StoreConfigured reports whether a durable store is set up. Without one the
// service runs on the in-memory fallback.
func (c *Config) StoreConfigured() bool {
	url := strings.TrimSpace(c.Store.URL)
	if url == "" || strings.Contains(url, PlaceholderStoreURL) {
		return false
	}
	return !strings.Contains(c.Store.AccessKey, PlaceholderStoreKey)
}

// StoreURL returns the effective store URL. A bare "sqlite://" points at
// the database file in the data directory.
func (c *Config) StoreURL() string {
	url := strings.TrimSpace(c.Store.URL)
	if url == "sqlite://" {
		return "sqlite://" + filepath.Join(c.GetDataDir(), defaultDBName)
	}
	return url
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
