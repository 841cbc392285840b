// Package config loads runtime settings from a config file and the
// environment. Environment variables use the QUILL_ prefix, so
// QUILL_LISTEN_ADDR overrides listen_addr.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `mapstructure:"listen_addr"`
	// DataDir holds the badger database.
	DataDir string `mapstructure:"data_dir"`
	// SiteTitle shows in the layout header and page titles.
	SiteTitle string `mapstructure:"site_title"`
	// ViewsDir is the base path the templates are loaded relative to.
	ViewsDir string `mapstructure:"views_dir"`
}

// Load reads quill.yaml from the working directory when present, then
// applies environment overrides. A missing config file is fine; the
// defaults stand.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("data_dir", "data/badger")
	v.SetDefault("site_title", "Quill")
	v.SetDefault("views_dir", ".")

	v.SetConfigName("quill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("QUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
