package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrBufferInitialization indicates a sound effect decoded to an empty
// buffer and no playable PCM data could be allocated for it.
var ErrBufferInitialization = errors.New("audio: buffer initialization failed")

// NotLoadedError is returned by playback operations that reference a
// sound absent from the pool.
type NotLoadedError struct {
	Sound Sound
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("audio: sound not loaded: %s", e.Sound)
}

// LoadError aggregates per-sound load failures. Sounds that loaded
// successfully in the same call stay in the pool; only the failed ones
// appear here.
type LoadError struct {
	Failures map[Sound]error
}

func (e *LoadError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for snd := range e.Failures {
		names = append(names, snd.String())
	}
	sort.Strings(names)
	return fmt.Sprintf("audio: %d sound(s) failed to load: %s", len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes the underlying causes to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
