// Package settings persists the player-facing audio preferences
// (volumes and mute) across runs and applies them onto the engine.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chime/audio"

	"github.com/spf13/viper"
)

// Settings are the persisted player preferences.
type Settings struct {
	MusicVolume        float64 `mapstructure:"music_volume"`
	SoundEffectsVolume float64 `mapstructure:"sound_effects_volume"`
	Muted              bool    `mapstructure:"muted"`
}

// Default returns the out-of-the-box preferences.
func Default() Settings {
	return Settings{
		MusicVolume:        1.0,
		SoundEffectsVolume: 1.0,
	}
}

// Apply pushes the preferences onto the engine through the group volume
// setters. Muted means both groups at zero; the stored volumes are kept
// so unmuting restores them.
func (s Settings) Apply(engine *audio.Engine) {
	if s.Muted {
		engine.SetMusicVolume(0)
		engine.SetSoundEffectsVolume(0)
		return
	}
	engine.SetMusicVolume(s.MusicVolume)
	engine.SetSoundEffectsVolume(s.SoundEffectsVolume)
}

// Store reads and writes Settings at a fixed path. Each store uses its
// own viper instance so it never collides with application config.
type Store struct {
	path string
}

// NewStore creates a store for the given YAML file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted settings, returning defaults if the file
// does not exist yet.
func (st *Store) Load() (Settings, error) {
	v := viper.New()
	v.SetConfigFile(st.path)
	v.SetConfigType("yaml")
	v.SetDefault("music_volume", 1.0)
	v.SetDefault("sound_effects_volume", 1.0)
	v.SetDefault("muted", false)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save writes the settings, creating the parent directory if needed.
func (st *Store) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("music_volume", s.MusicVolume)
	v.Set("sound_effects_volume", s.SoundEffectsVolume)
	v.Set("muted", s.Muted)

	if err := v.WriteConfigAs(st.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
