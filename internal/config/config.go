// Package config merges flags, environment variables, and an optional config
// file into runtime settings. Collaborator layer: it only feeds endpoints and
// identifiers into the clients.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	GraphEndpoint string
	GraphAPIKey   string
	RPCURL        string
	PageSize      int
	RatePerSec    float64
	PoolIDs       []string
	PositionIDs   []string
	PollInterval  time.Duration
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
// Environment variables use the POSITIONSCOPE_ prefix; a .env file in the
// working directory is honored when present.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POSITIONSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("page-size", 100)
	v.SetDefault("poll-interval", 300*time.Second)
	v.SetDefault("rate-per-sec", float64(0))
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		GraphEndpoint: v.GetString("graph-endpoint"),
		GraphAPIKey:   v.GetString("graph-api-key"),
		RPCURL:        v.GetString("rpc"),
		PageSize:      v.GetInt("page-size"),
		RatePerSec:    v.GetFloat64("rate-per-sec"),
		PoolIDs:       getStringSlice(v, "pool-id"),
		PositionIDs:   getStringSlice(v, "position-id"),
		PollInterval:  v.GetDuration("poll-interval"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
