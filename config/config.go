package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Audio configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// AudioConfig holds audio engine configuration
type AudioConfig struct {
	// SoundDirs are extra directories searched for sound files, in
	// order, after the embedded defaults.
	SoundDirs []string `mapstructure:"sound_dirs"`

	SampleRate    int     `mapstructure:"sample_rate"`
	MusicVolume   float64 `mapstructure:"music_volume"`
	EffectsVolume float64 `mapstructure:"effects_volume"`

	// SettingsFile is where persisted player preferences live.
	SettingsFile string `mapstructure:"settings_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	// Set defaults
	viper.SetDefault("audio.sample_rate", 44100)
	viper.SetDefault("audio.music_volume", 1.0)
	viper.SetDefault("audio.effects_volume", 1.0)
	viper.SetDefault("audio.settings_file", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Read config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.chime")
	viper.AddConfigPath("/etc/chime")

	// Allow environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("CHIME")

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Info("Using config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return &ConfigError{Field: "audio.sample_rate", Message: "sample rate must be positive"}
	}
	if c.Audio.MusicVolume < 0 {
		return &ConfigError{Field: "audio.music_volume", Message: "music volume must not be negative"}
	}
	if c.Audio.EffectsVolume < 0 {
		return &ConfigError{Field: "audio.effects_volume", Message: "effects volume must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
