package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chime/audio"

	"github.com/spf13/cobra"
)

var (
	playMusic    bool
	playLoop     bool
	playVolume   float64
	playDuration time.Duration
)

// playCmd plays one or more sounds from the configured sources
var playCmd = &cobra.Command{
	Use:   "play <sound>...",
	Short: "Load and play sounds",
	Long: `Load the named sounds into the pool and play them.

Sounds are treated as sound effects unless --music is given. With no
--for duration the command plays until interrupted; stopping music this
way fades it out before exiting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playMusic, "music", "m", false, "treat the sounds as music (streamed, fades on stop)")
	playCmd.Flags().BoolVarP(&playLoop, "loop", "l", false, "loop playback")
	playCmd.Flags().Float64Var(&playVolume, "volume", 1.0, "per-sound volume")
	playCmd.Flags().DurationVar(&playDuration, "for", 0, "how long to play before stopping (0 = until interrupted)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()
	client := audio.NewClient(engine)

	category := audio.SoundEffect
	if playMusic {
		category = audio.Music
	}
	sounds := make([]audio.Sound, len(args))
	for i, name := range args {
		sounds[i] = audio.Sound{Name: name, Category: category}
	}

	if err := client.Load(sounds...); err != nil {
		return fmt.Errorf("failed to load sounds: %w", err)
	}

	for _, snd := range sounds {
		if err := client.SetVolume(snd, playVolume); err != nil {
			return err
		}
		if playLoop {
			err = client.PlayLooping(snd)
		} else {
			err = client.Play(snd)
		}
		if err != nil {
			return fmt.Errorf("failed to play %s: %w", snd, err)
		}
	}

	// Wait for the duration, or for a shutdown signal
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	if playDuration > 0 {
		select {
		case <-time.After(playDuration):
		case sig := <-signalChan:
			fmt.Printf("\nReceived %s, stopping...\n", sig)
		}
	} else {
		sig := <-signalChan
		fmt.Printf("\nReceived %s, stopping...\n", sig)
	}

	for _, snd := range sounds {
		client.StopAsync(snd)
	}
	if playMusic {
		// Let the fade-out finish before tearing the engine down.
		time.Sleep(audio.DefaultFadeDuration + 100*time.Millisecond)
	}
	return nil
}
