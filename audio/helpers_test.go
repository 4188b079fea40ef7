package audio

import (
	"bytes"
	"encoding/binary"
	"io/fs"
	"math"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep/v2"
)

// stubOutput stands in for the speaker: it records attached streamers
// and provides the lock, producing no sound.
type stubOutput struct {
	mu sync.Mutex

	attachMu  sync.Mutex
	attached  []beep.Streamer
	initCalls int
	closed    bool
}

func (o *stubOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()
	o.initCalls++
	return nil
}

func (o *stubOutput) Play(s beep.Streamer) {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()
	o.attached = append(o.attached, s)
}

func (o *stubOutput) Lock() { o.mu.Lock() }

func (o *stubOutput) Unlock() { o.mu.Unlock() }

func (o *stubOutput) Close() error {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()
	o.closed = true
	return nil
}

func (o *stubOutput) attachedCount() int {
	o.attachMu.Lock()
	defer o.attachMu.Unlock()
	return len(o.attached)
}

// countingFS wraps a filesystem and counts Open calls. Resolution and
// decode both go through Open, so a stable count across a repeated Load
// proves the second call never touched the file.
type countingFS struct {
	inner fstest.MapFS

	mu    sync.Mutex
	opens int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	c.opens++
	c.mu.Unlock()
	return c.inner.Open(name)
}

func (c *countingFS) openCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// wavBytes builds a minimal 16-bit mono PCM WAV with a low-amplitude
// sine so decoded samples are non-zero.
func wavBytes(t *testing.T, frames, sampleRate int) []byte {
	t.Helper()

	var buf bytes.Buffer
	dataLen := frames * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < frames; i++ {
		sample := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		binary.Write(&buf, binary.LittleEndian, sample)
	}
	return buf.Bytes()
}

func testFS(t *testing.T, names ...string) fstest.MapFS {
	t.Helper()

	fsys := fstest.MapFS{}
	for _, name := range names {
		fsys[name] = &fstest.MapFile{Data: wavBytes(t, 2048, 44100)}
	}
	return fsys
}

func newTestEngine(t *testing.T, fsys fstest.MapFS, opts ...Option) (*Engine, *stubOutput) {
	t.Helper()

	out := &stubOutput{}
	engine, err := NewEngine(out, Sources{{Name: "test", FS: fsys}}, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine, out
}
