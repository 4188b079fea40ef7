package audio

import (
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output drives mixed samples to the platform audio device. The engine
// holds Lock/Unlock around every mutation of streamers the device is
// concurrently reading. Tests substitute a silent implementation.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close() error
}

type speakerOutput struct{}

// NewSpeakerOutput returns the real output device backed by the beep
// speaker (oto underneath).
func NewSpeakerOutput() Output {
	return speakerOutput{}
}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerOutput) Lock() { speaker.Lock() }

func (speakerOutput) Unlock() { speaker.Unlock() }

func (speakerOutput) Close() error {
	speaker.Close()
	return nil
}
