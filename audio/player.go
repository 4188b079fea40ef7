package audio

import (
	"fmt"

	"github.com/gopxl/beep/v2"
)

// resampleQuality is the beep resampler quality used when an asset's
// sample rate differs from the engine rate.
const resampleQuality = 4

// gain scales samples by a linear factor. Unlike effects.Volume it is
// not exponential: the engine's volume contract is a plain multiplier,
// passed through unclamped. The volume field is only read by the output
// goroutine and only written under the output lock.
type gain struct {
	streamer beep.Streamer
	volume   float64
}

func (g *gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.volume
		samples[i][1] *= g.volume
	}
	return n, ok
}

func (g *gain) Err() error {
	return g.streamer.Err()
}

// player is the union of the two playback backends. Exactly one of
// musicPlayer and effectPlayer sits behind it for every pool entry.
type player interface {
	// play schedules playback. Restart-versus-layer semantics differ
	// per variant; see the implementations.
	play(loop bool) error
	// halt silences the player immediately. Resources stay allocated
	// so the sound can be played again.
	halt()
	// setLevel sets the linear volume multiplier, unvalidated.
	setLevel(v float64)
	// level reads the current multiplier.
	level() float64
}

// musicPlayer streams a file-backed track through its own mixer node.
// The node is attached to the output once at load time and never
// drains, so replay is a matter of clearing it and rescheduling the
// (rewound) stream.
type musicPlayer struct {
	out        Output
	node       *beep.Mixer
	vol        *gain
	stream     beep.StreamSeekCloser
	format     beep.Format
	sampleRate beep.SampleRate
}

func newMusicPlayer(out Output, stream beep.StreamSeekCloser, format beep.Format, sampleRate beep.SampleRate) *musicPlayer {
	p := &musicPlayer{
		out:        out,
		node:       &beep.Mixer{},
		stream:     stream,
		format:     format,
		sampleRate: sampleRate,
	}
	p.vol = &gain{streamer: p.node, volume: 1}
	out.Play(p.vol)
	return p
}

// play restarts the track from the beginning, replacing whatever was
// scheduled before. loop repeats indefinitely, otherwise the track
// plays once and the node falls silent.
func (p *musicPlayer) play(loop bool) error {
	p.out.Lock()
	defer p.out.Unlock()

	p.node.Clear()
	if err := p.stream.Seek(0); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	var s beep.Streamer = p.stream
	if loop {
		looped, err := beep.Loop2(p.stream)
		if err != nil {
			return fmt.Errorf("loop: %w", err)
		}
		s = looped
	}
	if p.format.SampleRate != p.sampleRate {
		s = beep.Resample(resampleQuality, p.format.SampleRate, p.sampleRate, s)
	}
	p.node.Add(s)
	return nil
}

func (p *musicPlayer) halt() {
	p.out.Lock()
	defer p.out.Unlock()
	p.node.Clear()
}

func (p *musicPlayer) setLevel(v float64) {
	p.out.Lock()
	defer p.out.Unlock()
	p.vol.volume = v
}

func (p *musicPlayer) level() float64 {
	p.out.Lock()
	defer p.out.Unlock()
	return p.vol.volume
}

// effectPlayer replays an immutable pre-decoded buffer on a dedicated
// node routed through the shared effects bus. Triggering while already
// playing layers another region on the node; it does not cut off the
// one in flight.
type effectPlayer struct {
	out        Output
	node       *beep.Mixer
	vol        *gain
	buffer     *beep.Buffer
	sampleRate beep.SampleRate
}

func newEffectPlayer(out Output, buffer *beep.Buffer, sampleRate beep.SampleRate) *effectPlayer {
	p := &effectPlayer{
		out:        out,
		node:       &beep.Mixer{},
		buffer:     buffer,
		sampleRate: sampleRate,
	}
	p.vol = &gain{streamer: p.node, volume: 1}
	return p
}

func (p *effectPlayer) play(loop bool) error {
	p.out.Lock()
	defer p.out.Unlock()

	var s beep.Streamer = p.buffer.Streamer(0, p.buffer.Len())
	if loop {
		looped, err := beep.Loop2(p.buffer.Streamer(0, p.buffer.Len()))
		if err != nil {
			return fmt.Errorf("loop: %w", err)
		}
		s = looped
	}
	if p.buffer.Format().SampleRate != p.sampleRate {
		s = beep.Resample(resampleQuality, p.buffer.Format().SampleRate, p.sampleRate, s)
	}
	p.node.Add(s)
	return nil
}

func (p *effectPlayer) halt() {
	p.out.Lock()
	defer p.out.Unlock()
	p.node.Clear()
}

func (p *effectPlayer) setLevel(v float64) {
	p.out.Lock()
	defer p.out.Unlock()
	p.vol.volume = v
}

func (p *effectPlayer) level() float64 {
	p.out.Lock()
	defer p.out.Unlock()
	return p.vol.volume
}
