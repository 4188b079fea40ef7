// Package assets bundles the default sounds shipped with the binary
// and exposes them as the first audio source. Directories from the
// configuration are searched after these, so a file on disk with the
// same name never shadows a bundled one.
package assets

import (
	"embed"
	"io/fs"
	"sync"

	"chime/audio"
)

//go:embed audio
var AudioFS embed.FS

var (
	defaultSource audio.Source
	initOnce      sync.Once
)

// Source returns the embedded default sound source.
func Source() audio.Source {
	initOnce.Do(func() {
		sub, err := fs.Sub(AudioFS, "audio")
		if err != nil {
			// The audio directory is compiled in; Sub on it cannot fail.
			panic(err)
		}
		defaultSource = audio.Source{Name: "embedded", FS: sub}
	})
	return defaultSource
}
