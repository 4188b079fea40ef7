package audio

// Category selects the playback backend for a sound: music streams from
// its file during playback, sound effects are fully decoded up front so
// they can trigger with low latency and overlap.
type Category int

const (
	Music Category = iota
	SoundEffect
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case Music:
		return "music"
	case SoundEffect:
		return "soundEffect"
	default:
		return "unknown"
	}
}

// Sound identifies a playable asset by name and category. The name is
// the file stem used to locate the asset in the configured sources; an
// explicit extension is allowed and skips extension probing. Sound is
// comparable and used as the pool key.
type Sound struct {
	Name     string
	Category Category
}

// String returns "name (category)" for logs and error messages.
func (s Sound) String() string {
	return s.Name + " (" + s.Category.String() + ")"
}
