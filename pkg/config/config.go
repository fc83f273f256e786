package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything the CLI and server need. Values come from
// config.yaml, LEDGER_* environment variables, then flag overrides, in
// that order of increasing precedence.
type Config struct {
	DataDir     string  `mapstructure:"data_dir"`
	Strict      bool    `mapstructure:"strict"`
	MatchCutoff float64 `mapstructure:"match_cutoff"`
	MinReminder float64 `mapstructure:"min_reminder"`
	GeminiModel string  `mapstructure:"gemini_model"`
	ListenAddr  string  `mapstructure:"listen_addr"`
}

// Build loads configuration from cfgFile (config.yaml in the working
// directory when empty) and applies flag overrides.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data")
	v.SetDefault("strict", false)
	v.SetDefault("match_cutoff", 0.6)
	v.SetDefault("min_reminder", 100)
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("listen_addr", "0.0.0.0:3000")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults and env carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		bindings := map[string]string{
			"data_dir":     "data-dir",
			"strict":       "strict",
			"match_cutoff": "cutoff",
			"min_reminder": "min",
			"gemini_model": "model",
			"listen_addr":  "addr",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
