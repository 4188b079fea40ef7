package cmd

import (
	"fmt"
	"os"

	"chime/assets"
	"chime/audio"
	"chime/config"
	"chime/logger"
	"chime/settings"

	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func beepRate(cfg *config.Config) beep.SampleRate {
	return beep.SampleRate(cfg.Audio.SampleRate)
}

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chime",
	Short: "A game-audio engine and soundboard",
	Long: `Chime loads music and sound effects from bundled and configured
sources into a sound pool and plays them through the system audio device.

Music streams from its file and fades out when stopped; sound effects are
pre-decoded so they trigger instantly and can overlap. Sounds are resolved
against the embedded assets first, then each configured sound directory,
first match wins.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentFlags().StringSlice("sound-dir", nil, "extra directory to search for sounds (repeatable)")
	rootCmd.PersistentFlags().Int("sample-rate", 44100, "engine sample rate")
	rootCmd.PersistentFlags().String("settings-file", "", "path to persisted player settings")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	viper.BindPFlag("audio.sound_dirs", rootCmd.PersistentFlags().Lookup("sound-dir"))
	viper.BindPFlag("audio.sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag("audio.settings_file", rootCmd.PersistentFlags().Lookup("settings-file"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if verbose {
		viper.Set("logging.level", "debug")
	}
}

// loadConfig loads, validates, and applies logging for every command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, nil
}

// buildSources assembles the ordered sound sources: embedded defaults
// first, then each configured directory.
func buildSources(cfg *config.Config) audio.Sources {
	sources := audio.Sources{assets.Source()}
	for _, dir := range cfg.Audio.SoundDirs {
		sources = append(sources, audio.Source{Name: dir, FS: os.DirFS(dir)})
	}
	return sources
}

// buildEngine creates the engine against the real speaker output and
// applies persisted player settings when configured.
func buildEngine(cfg *config.Config) (*audio.Engine, error) {
	engine, err := audio.NewEngine(
		audio.NewSpeakerOutput(),
		buildSources(cfg),
		audio.WithSampleRate(beepRate(cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio engine: %w", err)
	}

	if cfg.Audio.SettingsFile != "" {
		prefs, err := settings.NewStore(cfg.Audio.SettingsFile).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load player settings: %w", err)
		}
		prefs.Apply(engine)
	} else {
		engine.SetMusicVolume(cfg.Audio.MusicVolume)
		engine.SetSoundEffectsVolume(cfg.Audio.EffectsVolume)
	}
	return engine, nil
}
