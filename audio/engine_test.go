package audio

import (
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadIdempotent(t *testing.T) {
	cfs := &countingFS{inner: testFS(t, "click.wav")}
	out := &stubOutput{}
	engine, err := NewEngine(out, Sources{{Name: "test", FS: cfs}})
	require.NoError(t, err)

	snd := Sound{Name: "click", Category: SoundEffect}
	require.NoError(t, engine.Load(snd))
	opens := cfs.openCount()
	require.Greater(t, opens, 0, "expected the first load to read the file")

	require.NoError(t, engine.Load(snd))
	require.Equal(t, opens, cfs.openCount(), "expected the second load to skip the decode entirely")
	require.Len(t, engine.pool, 1)
}

func TestLoadPartialFailure(t *testing.T) {
	engine, _ := newTestEngine(t, testFS(t, "click.wav"))

	valid := Sound{Name: "click", Category: SoundEffect}
	missing := Sound{Name: "boom", Category: SoundEffect}
	err := engine.Load(valid, missing)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	require.Len(t, lerr.Failures, 1, "expected only the missing sound in the aggregate")
	require.Contains(t, lerr.Failures, missing)

	require.Contains(t, engine.pool, valid, "expected the valid sound to stay loaded")
	require.NotContains(t, engine.pool, missing)
}

func TestLoadEmptyEffectBuffer(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.wav": &fstest.MapFile{Data: wavBytes(t, 0, 44100)},
	}
	engine, _ := newTestEngine(t, fsys)

	snd := Sound{Name: "empty", Category: SoundEffect}
	err := engine.Load(snd)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	require.ErrorIs(t, lerr.Failures[snd], ErrBufferInitialization)
	require.Empty(t, engine.pool)
}

func TestOperationsOnUnloadedSound(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t))
	ghost := Sound{Name: "ghost", Category: SoundEffect}

	var nl *NotLoadedError
	require.ErrorAs(t, engine.Play(ghost), &nl)
	require.Equal(t, ghost, nl.Sound)
	require.ErrorAs(t, engine.Stop(ghost), &nl)
	require.ErrorAs(t, engine.SetVolume(ghost, 0.5), &nl)

	require.Empty(t, engine.pool)
	require.Equal(t, 0, out.attachedCount(), "expected no effects bus start from failed plays")
}

func TestSetSoundEffectsVolume(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t))

	for _, v := range []float64{0, 0.25, 0.5, 1, 1.5, -2} {
		engine.SetSoundEffectsVolume(v)
		out.Lock()
		got := engine.effectsVol.volume
		out.Unlock()
		require.InDelta(t, 0.25*v, got, 1e-12, "volume %v", v)
	}
}

func TestSetMusicVolume(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t, "theme.wav", "menu.wav", "click.wav"))

	theme := Sound{Name: "theme", Category: Music}
	menu := Sound{Name: "menu", Category: Music}
	click := Sound{Name: "click", Category: SoundEffect}
	require.NoError(t, engine.Load(theme, menu, click))

	engine.SetMusicVolume(0.4)

	require.InDelta(t, 0.4, engine.pool[theme].level(), 1e-12)
	require.InDelta(t, 0.4, engine.pool[menu].level(), 1e-12)
	require.InDelta(t, 1.0, engine.pool[click].level(), 1e-12, "expected effect volume untouched")

	out.Lock()
	busVol := engine.effectsVol.volume
	out.Unlock()
	require.InDelta(t, 1.0, busVol, 1e-12, "expected effects bus untouched")
}

func TestStopMusicReturnsBeforeFade(t *testing.T) {
	engine, _ := newTestEngine(t, testFS(t, "theme.wav"), WithFadeDuration(120*time.Millisecond))

	theme := Sound{Name: "theme", Category: Music}
	require.NoError(t, engine.Load(theme))
	require.NoError(t, engine.Play(theme))
	p := engine.pool[theme].(*musicPlayer)

	start := time.Now()
	require.NoError(t, engine.Stop(theme))
	require.Less(t, time.Since(start), 60*time.Millisecond, "expected Stop to return before the fade completes")
	require.Greater(t, p.level(), 0.0, "expected volume still up right after Stop")

	require.Eventually(t, func() bool {
		if p.level() != 0 {
			return false
		}
		engine.out.Lock()
		n := p.node.Len()
		engine.out.Unlock()
		return n == 0
	}, time.Second, 10*time.Millisecond, "expected the fade to reach zero and halt the player")
}

func TestStopEffectImmediate(t *testing.T) {
	engine, _ := newTestEngine(t, testFS(t, "click.wav"))

	click := Sound{Name: "click", Category: SoundEffect}
	require.NoError(t, engine.Load(click))
	require.NoError(t, engine.Play(click))
	p := engine.pool[click].(*effectPlayer)

	require.NoError(t, engine.Stop(click))
	engine.out.Lock()
	n := p.node.Len()
	engine.out.Unlock()
	require.Equal(t, 0, n, "expected the node cleared with no fade")
	require.InDelta(t, 1.0, p.level(), 1e-12, "expected effect volume untouched by stop")
}

func TestEffectTriggersLayer(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t, "click.wav"))

	click := Sound{Name: "click", Category: SoundEffect}
	require.NoError(t, engine.Load(click))
	require.Equal(t, 0, out.attachedCount(), "expected the effects bus not started by load")

	require.NoError(t, engine.Play(click))
	require.NoError(t, engine.Play(click))

	engine.out.Lock()
	n := engine.pool[click].(*effectPlayer).node.Len()
	engine.out.Unlock()
	require.Equal(t, 2, n, "expected overlapping triggers to layer, not restart")
	require.Equal(t, 1, out.attachedCount(), "expected the bus started exactly once")
}

func TestMusicRestartsFromZero(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t, "theme.wav"))

	theme := Sound{Name: "theme", Category: Music}
	require.NoError(t, engine.Load(theme))
	require.NoError(t, engine.Play(theme))
	p := engine.pool[theme].(*musicPlayer)

	// Pump samples through the attached chain, as the device would.
	buf := make([][2]float64, 256)
	out.Lock()
	out.attached[0].Stream(buf)
	out.Unlock()
	require.Greater(t, p.stream.Position(), 0)

	require.NoError(t, engine.Play(theme))
	require.Equal(t, 0, p.stream.Position(), "expected playback restarted from the beginning")
	engine.out.Lock()
	n := p.node.Len()
	engine.out.Unlock()
	require.Equal(t, 1, n, "expected the previous region replaced")
}

func TestConcurrentPlayDifferentSounds(t *testing.T) {
	engine, _ := newTestEngine(t, testFS(t, "click.wav", "ding.wav"))

	click := Sound{Name: "click", Category: SoundEffect}
	ding := Sound{Name: "ding", Category: SoundEffect}
	require.NoError(t, engine.Load(click, ding))

	const rounds = 25
	errs := make(chan error, rounds*2)
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- engine.Play(click)
		}()
		go func() {
			defer wg.Done()
			errs <- engine.Play(ding)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, engine.pool, 2, "expected the pool unchanged by concurrent plays")
}

func TestClose(t *testing.T) {
	engine, out := newTestEngine(t, testFS(t, "theme.wav"))

	theme := Sound{Name: "theme", Category: Music}
	require.NoError(t, engine.Load(theme))
	require.NoError(t, engine.Play(theme))

	require.NoError(t, engine.Close())
	require.True(t, out.closed)
}
