// Package config loads the CLI's configuration the way the teacher's own
// DMG config loader does: spf13/viper, a well-known file name searched
// across a handful of paths, sane defaults, and an environment-variable
// override prefix.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the CLI's adjustable defaults.
type Config struct {
	// DiskImagePath is the disk_image_path setting (default empty). The
	// subcommands take the image path as a required argument and do not
	// read this value.
	DiskImagePath string `mapstructure:"disk_image_path"`

	// OutputFormat is the output_format setting (default "table"). No
	// subcommand reads it; dump and validate always print plain text.
	OutputFormat string `mapstructure:"output_format"`

	// TraceResponseBuffer is the trace_response_buffer setting (default
	// false). Nothing reads it; the response buffer does no logging.
	TraceResponseBuffer bool `mapstructure:"trace_response_buffer"`
}

// Load reads uiccemu-config.{yaml,json,...} from the working directory,
// ./config, $HOME/.uiccemu, or /etc/uiccemu, falling back to defaults
// when no file is found.
func Load() (*Config, error) {
	viper.SetConfigName("uiccemu-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.uiccemu")
	viper.AddConfigPath("/etc/uiccemu")

	viper.SetDefault("disk_image_path", "")
	viper.SetDefault("output_format", "table")
	viper.SetDefault("trace_response_buffer", false)

	viper.SetEnvPrefix("UICCEMU")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
