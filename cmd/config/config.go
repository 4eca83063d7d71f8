package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-variables/pkg/board"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

var cfgFile string

// Config is the resolved configuration of a vars invocation.
type Config struct {
	Store    store.Config
	LogLevel logrus.Level
	Window   int
	Types    []models.DataType
}

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "vars"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("VARS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "vars", "variables.yaml"))
	viper.SetDefault("store.redis_addr", "localhost:6379")
	viper.SetDefault("store.redis_db", 0)
	viper.SetDefault("store.redis_prefix", "vars")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("floor.window", board.DefaultWindow)
	viper.SetDefault("filter.types", []string{})

	// A missing config file is fine, defaults apply.
	_ = viper.ReadInConfig()
}

// Load reads the configuration InitConfig prepared.
func Load() (*Config, error) {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return nil, fmt.Errorf("parse log_level: %w", err)
	}
	types, err := ParseTypes(viper.GetStringSlice("filter.types"))
	if err != nil {
		return nil, fmt.Errorf("parse filter.types: %w", err)
	}
	return &Config{
		Store: store.Config{
			Driver:      viper.GetString("store.driver"),
			Path:        viper.GetString("store.path"),
			RedisAddr:   viper.GetString("store.redis_addr"),
			RedisDB:     viper.GetInt("store.redis_db"),
			RedisPrefix: viper.GetString("store.redis_prefix"),
		},
		LogLevel: level,
		Window:   viper.GetInt("floor.window"),
		Types:    types,
	}, nil
}

// NewLogger builds the stderr logger every command shares.
func (c *Config) NewLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(c.LogLevel)
	return logrus.NewEntry(logger)
}

// OpenStore opens the configured variable store.
func (c *Config) OpenStore(ctx context.Context, logger *logrus.Entry) (store.Store, error) {
	cfg := c.Store
	cfg.Logger = logger
	if cfg.Driver == "file" || cfg.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return s, nil
}

// ParseTypes parses type names, split on commas as well. No names means
// every type.
func ParseTypes(names []string) ([]models.DataType, error) {
	var types []models.DataType
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			dt, err := models.ParseDataType(part)
			if err != nil {
				return nil, err
			}
			types = append(types, dt)
		}
	}
	if len(types) == 0 {
		return models.AllDataTypes(), nil
	}
	return types, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/vars/config.yaml)")
}
