package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	// Start with defaults
	LoadDefault()

	configFile := os.Getenv("USERDIR_CONFIG_FILE")
	if configFile == "" {
		configFile = "userdir.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	// Environment variables have the highest priority
	ApplyEnvOverrides()
}

// LoadDefault resets the configuration to the built-in defaults
func LoadDefault() {
	cfg := defaultConfig
	cfg.Common.Users.Seed = append([]seedUser(nil), defaultConfig.Common.Users.Seed...)
	_loaded = &cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes merges YAML values over the defaults
func LoadFromBytes(data []byte) error {
	cfg := defaultConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:           "0.0.0.0",
			Port:           4000,
			MaxRequestSize: 1048576,
		},
		Users: usersConfig{
			Seed: []seedUser{
				{Name: "John Doe", Email: "john.doe@example.com"},
				{Name: "Jane Smith", Email: "jane.smith@example.com"},
			},
		},
		Events: eventsConfig{
			Enabled: false,
			Kafka: kafkaConfig{
				Brokers:      []string{"localhost:9092"},
				Topic:        "userdir.users",
				BatchTimeout: 10,
			},
		},
	},
}

type Common struct {
	Log    logConfig    `yaml:"log"`
	Http   httpConfig   `yaml:"http"`
	Users  usersConfig  `yaml:"users"`
	Events eventsConfig `yaml:"events"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxRequestSize int64  `yaml:"max_request_size"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type usersConfig struct {
	Seed []seedUser `yaml:"seed"` // users present at startup, ids assigned in order
}

type seedUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type eventsConfig struct {
	Enabled bool        `yaml:"enabled"` // publish user lifecycle events
	Kafka   kafkaConfig `yaml:"kafka"`
}

type kafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	BatchTimeout int      `yaml:"batch_timeout_ms"`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Users() usersConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Users
}

func Events() eventsConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Events
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if httpHost := os.Getenv("USERDIR_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("USERDIR_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	if logLevel := os.Getenv("USERDIR_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("USERDIR_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}

	if eventsEnabled := os.Getenv("USERDIR_EVENTS_ENABLED"); eventsEnabled != "" {
		if enabled, err := strconv.ParseBool(eventsEnabled); err == nil {
			_loaded.Common.Events.Enabled = enabled
		}
	}
	if brokers := os.Getenv("USERDIR_KAFKA_BROKERS"); brokers != "" {
		_loaded.Common.Events.Kafka.Brokers = splitList(brokers)
	}
	if topic := os.Getenv("USERDIR_KAFKA_TOPIC"); topic != "" {
		_loaded.Common.Events.Kafka.Topic = topic
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
