package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

const (
	// DefaultSampleRate is the engine mix rate; assets at other rates
	// are resampled on playback.
	DefaultSampleRate = beep.SampleRate(44100)

	// DefaultFadeDuration is how long a stopped music track takes to
	// fade to silence before its player halts.
	DefaultFadeDuration = 2500 * time.Millisecond

	// effectsAttenuation scales the shared effects bus relative to the
	// requested effects volume.
	effectsAttenuation = 0.25

	bufferDuration = 100 * time.Millisecond
	fadeTick       = 50 * time.Millisecond
)

// Engine owns the sound pool and the shared effects bus. Every
// operation that touches the pool is serialized through one mutex, so
// concurrent callers always observe a consistent pool. Pool entries are
// created by Load and live until Close; playback state is the only
// thing that changes after that.
type Engine struct {
	mu      sync.Mutex
	out     Output
	sources Sources
	pool    map[Sound]player

	sampleRate   beep.SampleRate
	fadeDuration time.Duration
	logger       *slog.Logger

	effectsBus *beep.Mixer
	effectsVol *gain
	busStarted bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSampleRate overrides the engine mix rate.
func WithSampleRate(rate beep.SampleRate) Option {
	return func(e *Engine) { e.sampleRate = rate }
}

// WithFadeDuration overrides the music stop fade interval.
func WithFadeDuration(d time.Duration) Option {
	return func(e *Engine) { e.fadeDuration = d }
}

// WithLogger overrides the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine initializes the output device and returns an engine with an
// empty pool reading assets from the given sources, in order.
func NewEngine(out Output, sources Sources, opts ...Option) (*Engine, error) {
	e := &Engine{
		out:          out,
		sources:      sources,
		pool:         make(map[Sound]player),
		sampleRate:   DefaultSampleRate,
		fadeDuration: DefaultFadeDuration,
		logger:       slog.With("component", "audio"),
		effectsBus:   &beep.Mixer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.effectsVol = &gain{streamer: e.effectsBus, volume: 1}

	if err := out.Init(e.sampleRate, e.sampleRate.N(bufferDuration)); err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}
	return e, nil
}

// Load resolves and decodes each sound not already in the pool. Sounds
// already present are skipped without re-decoding. Per-sound failures
// are collected into a single LoadError while the sounds that succeeded
// stay loaded; a nil return means every sound is in the pool.
func (e *Engine) Load(sounds ...Sound) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	failures := make(map[Sound]error)
	for _, snd := range sounds {
		if _, ok := e.pool[snd]; ok {
			continue
		}
		p, err := e.loadOne(snd)
		if err != nil {
			e.logger.Warn("failed to load sound", slog.String("sound", snd.String()), slog.Any("error", err))
			failures[snd] = err
			continue
		}
		e.pool[snd] = p
		e.logger.Debug("loaded sound", slog.String("sound", snd.String()))
	}
	if len(failures) > 0 {
		return &LoadError{Failures: failures}
	}
	return nil
}

func (e *Engine) loadOne(snd Sound) (player, error) {
	src, name, err := e.sources.Resolve(snd)
	if err != nil {
		return nil, err
	}
	stream, format, err := decode(src, name)
	if err != nil {
		return nil, err
	}

	switch snd.Category {
	case Music:
		return newMusicPlayer(e.out, stream, format, e.sampleRate), nil
	case SoundEffect:
		buffer := beep.NewBuffer(format)
		buffer.Append(stream)
		stream.Close()
		if buffer.Len() == 0 {
			return nil, ErrBufferInitialization
		}
		p := newEffectPlayer(e.out, buffer, e.sampleRate)
		e.out.Lock()
		e.effectsBus.Add(p.vol)
		e.out.Unlock()
		return p, nil
	default:
		return nil, fmt.Errorf("unknown category for %s", snd)
	}
}

// Play starts single-shot playback of a loaded sound. Music restarts
// from the beginning even if already playing; sound effects layer on
// top of any region still in flight.
func (e *Engine) Play(snd Sound) error {
	return e.play(snd, false)
}

// PlayLooping is Play with indefinite looping.
func (e *Engine) PlayLooping(snd Sound) error {
	return e.play(snd, true)
}

func (e *Engine) play(snd Sound, loop bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.pool[snd]
	if !ok {
		return &NotLoadedError{Sound: snd}
	}
	if snd.Category == SoundEffect {
		e.startBus()
	}
	return p.play(loop)
}

// startBus attaches the effects bus to the output the first time a
// sound effect plays. Idempotent; callers hold e.mu.
func (e *Engine) startBus() {
	if e.busStarted {
		return
	}
	e.out.Play(e.effectsVol)
	e.busStarted = true
	e.logger.Debug("effects bus started")
}

// Stop silences a loaded sound. Sound effects halt immediately. Music
// fades to zero over the fade interval on a detached task and only then
// halts; Stop itself returns as soon as the fade is scheduled. A second
// Stop during the fade starts another fade rather than cancelling the
// first.
func (e *Engine) Stop(snd Sound) error {
	e.mu.Lock()
	p, ok := e.pool[snd]
	e.mu.Unlock()
	if !ok {
		return &NotLoadedError{Sound: snd}
	}

	switch p := p.(type) {
	case *musicPlayer:
		go e.fadeOut(p)
	default:
		p.halt()
	}
	return nil
}

// fadeOut ramps the player's volume down linearly from its current
// level, then halts the node. The level stays at zero afterwards until
// the next SetVolume. Runs without the pool lock; only the output lock
// is taken, one step at a time.
func (e *Engine) fadeOut(p *musicPlayer) {
	start := p.level()
	steps := int(e.fadeDuration / fadeTick)
	if steps < 1 {
		steps = 1
	}
	ticker := time.NewTicker(e.fadeDuration / time.Duration(steps))
	defer ticker.Stop()

	for i := 1; i <= steps; i++ {
		<-ticker.C
		p.setLevel(start * float64(steps-i) / float64(steps))
	}
	p.halt()
}

// SetVolume sets the per-sound volume multiplier. The value is passed
// through unvalidated; out-of-range values reach the mixer as-is.
func (e *Engine) SetVolume(snd Sound, volume float64) error {
	e.mu.Lock()
	p, ok := e.pool[snd]
	e.mu.Unlock()
	if !ok {
		return &NotLoadedError{Sound: snd}
	}
	p.setLevel(volume)
	return nil
}

// SetMusicVolume applies the volume to every loaded music sound,
// best-effort. A sound that disappears between the snapshot and the
// write is skipped silently.
func (e *Engine) SetMusicVolume(volume float64) {
	e.mu.Lock()
	music := make([]Sound, 0, len(e.pool))
	for snd := range e.pool {
		if snd.Category == Music {
			music = append(music, snd)
		}
	}
	e.mu.Unlock()

	for _, snd := range music {
		_ = e.SetVolume(snd, volume)
	}
}

// SetSoundEffectsVolume sets the shared effects bus to a quarter of the
// requested value. The attenuation keeps effects sitting under the
// music at equal settings; the product is passed through unclamped.
func (e *Engine) SetSoundEffectsVolume(volume float64) {
	e.out.Lock()
	e.effectsVol.volume = effectsAttenuation * volume
	e.out.Unlock()
}

// Close halts every player and shuts the output device down. The engine
// is not usable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	for _, p := range e.pool {
		p.halt()
	}
	e.mu.Unlock()

	e.out.Lock()
	e.effectsBus.Clear()
	e.out.Unlock()
	return e.out.Close()
}
