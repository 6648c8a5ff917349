package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults mirror VLC's own HTTP interface defaults: it listens on 8080 and
// only checks the password (the username field of basic auth is ignored).
const (
	DefaultName = "VLC Remote"
	DefaultHost = "localhost"
	DefaultPort = 8080

	DefaultTimeoutS       = 10
	DefaultPollIntervalMs = 1000
	MinPollIntervalMs     = 100

	DefaultServerPort = 8000
)

// Config holds all bridge configuration.
type Config struct {
	Player struct {
		Name           string `mapstructure:"name"`
		Host           string `mapstructure:"host"`
		Port           int    `mapstructure:"port"`
		Username       string `mapstructure:"username"`
		Password       string `mapstructure:"password"`
		TimeoutS       int    `mapstructure:"timeout_s"`
		PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	} `mapstructure:"player"`
	Server struct {
		Port      int  `mapstructure:"port"`
		Discovery bool `mapstructure:"discovery"`
	} `mapstructure:"server"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Player.TimeoutS) * time.Second
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Player.PollIntervalMs) * time.Millisecond
}

type configError struct {
	field   string
	message string
}

func (e configError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.message)
}

// Load reads the configuration: defaults, then the config file (an explicit
// path, or config.yaml under the XDG config dir), then NICOSIA_* environment
// overrides. Invalid fields are reset to defaults with a warning instead of
// failing startup.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("player.name", DefaultName)
	v.SetDefault("player.host", DefaultHost)
	v.SetDefault("player.port", DefaultPort)
	v.SetDefault("player.username", "")
	v.SetDefault("player.password", "")
	v.SetDefault("player.timeout_s", DefaultTimeoutS)
	v.SetDefault("player.poll_interval_ms", DefaultPollIntervalMs)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.discovery", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			homeDir, homeErr := os.UserHomeDir()
			if homeErr == nil {
				configHome = filepath.Join(homeDir, ".config")
			}
		}
		if configHome != "" {
			v.AddConfigPath(filepath.Join(configHome, "nicosia"))
		}
	}

	v.SetEnvPrefix("NICOSIA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if readErr := v.ReadInConfig(); readErr != nil {
		if _, notFound := readErr.(viper.ConfigFileNotFoundError); !notFound {
			// An explicitly named file that cannot be read is fatal; a
			// missing default file is not.
			if path != "" {
				return Config{}, readErr
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", readErr)
		}
	}

	var cfg Config
	if unmarshalErr := v.Unmarshal(&cfg); unmarshalErr != nil {
		return Config{}, unmarshalErr
	}

	validationErrors := validateConfig(&cfg)
	if len(validationErrors) > 0 {
		printConfigWarnings(validationErrors)
		applyDefaultsForInvalidFields(&cfg, validationErrors)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) []error {
	var errs []error

	if cfg.Player.Host == "" {
		errs = append(errs, configError{"player.host", "must not be empty"})
	}
	if cfg.Player.Port < 1 || cfg.Player.Port > 65535 {
		errs = append(errs, configError{"player.port", fmt.Sprintf("must be 1-65535 (got %d)", cfg.Player.Port)})
	}
	if cfg.Player.TimeoutS < 1 {
		errs = append(errs, configError{"player.timeout_s", fmt.Sprintf("must be at least 1 (got %d)", cfg.Player.TimeoutS)})
	}
	if cfg.Player.PollIntervalMs < MinPollIntervalMs {
		errs = append(errs, configError{"player.poll_interval_ms", fmt.Sprintf("must be at least %d (got %d)", MinPollIntervalMs, cfg.Player.PollIntervalMs)})
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, configError{"server.port", fmt.Sprintf("must be 1-65535 (got %d)", cfg.Server.Port)})
	}
	return errs
}

func applyDefaultsForInvalidFields(cfg *Config, errs []error) {
	for _, err := range errs {
		cfgErr, ok := err.(configError)
		if !ok {
			continue
		}
		switch cfgErr.field {
		case "player.host":
			cfg.Player.Host = DefaultHost
		case "player.port":
			cfg.Player.Port = DefaultPort
		case "player.timeout_s":
			cfg.Player.TimeoutS = DefaultTimeoutS
		case "player.poll_interval_ms":
			cfg.Player.PollIntervalMs = DefaultPollIntervalMs
		case "server.port":
			cfg.Server.Port = DefaultServerPort
		}
	}
}

func printConfigWarnings(errs []error) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: config %v, using default\n", err)
	}
}
