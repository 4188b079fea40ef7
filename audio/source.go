package audio

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// extensions lists the decodable file extensions, in probe order.
var extensions = []string{".wav", ".mp3", ".flac", ".ogg"}

// Source is one named location sounds can be loaded from.
type Source struct {
	Name string
	FS   fs.FS
}

// Sources is an ordered list of asset locations. Resolution is
// first-match-wins per sound: the first source containing a matching
// file supplies it and later sources are never consulted for that
// sound, even if they also carry the asset.
type Sources []Source

// Resolve locates the file for a sound. If the sound name carries a
// known extension only that exact file is probed; otherwise each
// supported extension is tried in order within a source before moving
// to the next source.
func (ss Sources) Resolve(snd Sound) (Source, string, error) {
	candidates := candidateNames(snd.Name)
	for _, src := range ss {
		for _, name := range candidates {
			if _, err := fs.Stat(src.FS, name); err == nil {
				return src, name, nil
			}
		}
	}
	return Source{}, "", fmt.Errorf("no source contains %s", snd)
}

func candidateNames(name string) []string {
	ext := strings.ToLower(path.Ext(name))
	for _, known := range extensions {
		if ext == known {
			return []string{name}
		}
	}
	candidates := make([]string, len(extensions))
	for i, known := range extensions {
		candidates[i] = name + known
	}
	return candidates
}

// decode opens and decodes a resolved file. The returned streamer reads
// incrementally from the open file; the caller owns both and closes the
// streamer when done (which closes the file for the formats that take
// ownership).
func decode(src Source, name string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := src.FS.Open(name)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s from %s: %w", name, src.Name, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s", name)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s from %s: %w", name, src.Name, err)
	}
	return stream, format, nil
}
