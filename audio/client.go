package audio

import "log/slog"

// Client is the call surface the rest of the application uses. Every
// engine operation is available twice: as a plain awaitable call with
// an explicit error, and as an Async variant that detaches a goroutine
// and discards the error after logging it at debug level. UI-driven
// call sites use the Async forms so a missing or broken sound never
// blocks or surfaces to the player.
type Client struct {
	engine *Engine
	logger *slog.Logger
}

// NewClient wraps an engine.
func NewClient(engine *Engine) *Client {
	return &Client{
		engine: engine,
		logger: slog.With("component", "audioclient"),
	}
}

func (c *Client) Load(sounds ...Sound) error {
	return c.engine.Load(sounds...)
}

func (c *Client) LoadAsync(sounds ...Sound) {
	go func() { c.discard("load", c.engine.Load(sounds...)) }()
}

func (c *Client) Play(snd Sound) error {
	return c.engine.Play(snd)
}

func (c *Client) PlayAsync(snd Sound) {
	go func() { c.discard("play", c.engine.Play(snd)) }()
}

func (c *Client) PlayLooping(snd Sound) error {
	return c.engine.PlayLooping(snd)
}

func (c *Client) PlayLoopingAsync(snd Sound) {
	go func() { c.discard("playLooping", c.engine.PlayLooping(snd)) }()
}

func (c *Client) Stop(snd Sound) error {
	return c.engine.Stop(snd)
}

func (c *Client) StopAsync(snd Sound) {
	go func() { c.discard("stop", c.engine.Stop(snd)) }()
}

func (c *Client) SetVolume(snd Sound, volume float64) error {
	return c.engine.SetVolume(snd, volume)
}

func (c *Client) SetVolumeAsync(snd Sound, volume float64) {
	go func() { c.discard("setVolume", c.engine.SetVolume(snd, volume)) }()
}

func (c *Client) SetMusicVolume(volume float64) {
	c.engine.SetMusicVolume(volume)
}

func (c *Client) SetMusicVolumeAsync(volume float64) {
	go c.engine.SetMusicVolume(volume)
}

func (c *Client) SetSoundEffectsVolume(volume float64) {
	c.engine.SetSoundEffectsVolume(volume)
}

func (c *Client) SetSoundEffectsVolumeAsync(volume float64) {
	go c.engine.SetSoundEffectsVolume(volume)
}

func (c *Client) discard(op string, err error) {
	if err != nil {
		c.logger.Debug("discarding audio error", slog.String("op", op), slog.Any("error", err))
	}
}
