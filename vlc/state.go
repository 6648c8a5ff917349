package vlc

import "strconv"

// PlaybackState is the normalized playback state of the remote player.
type PlaybackState string

const (
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
	// StateIdle is the deterministic default: "stopped", an unknown state
	// string and an absent state field all map here.
	StateIdle PlaybackState = "idle"
)

// NoMetadata is reported for title and artist when the status document
// carries no usable value for them.
const NoMetadata = "None"

const maxRawVolume = 256

// State is the player-facing snapshot derived from one status document.
// It is recomputed wholesale on every poll; there are no partial updates.
type State struct {
	Playback PlaybackState
	// Position and Duration are in seconds.
	Position int
	Duration int
	// Volume is the 0.0-1.0 fraction of VLC's raw 0-256 scale.
	Volume float64
	Muted  bool
	Title  string
	Artist string
}

// EmptyState is what an unreachable or silent player degrades to.
func EmptyState() State {
	return State{
		Playback: StateIdle,
		Volume:   0,
		Muted:    true,
		Title:    NoMetadata,
		Artist:   NoMetadata,
	}
}

// Normalize maps a raw status document into a State. Missing or malformed
// fields degrade to documented defaults; Normalize never fails.
func Normalize(status Status) State {
	state := EmptyState()

	switch status.State {
	case "playing":
		state.Playback = StatePlaying
	case "paused":
		state.Playback = StatePaused
	default:
		state.Playback = StateIdle
	}

	// VLC reports the elapsed seconds in "time"; some front-ends read the
	// fractional "position" field instead, so keep it as a fallback.
	state.Position = intField(status.Time)
	if status.Time == "" {
		state.Position = intField(status.Position)
	}
	state.Duration = intField(status.Length)

	rawVolume := intField(status.Volume)
	if rawVolume < 0 {
		rawVolume = 0
	}
	if rawVolume > maxRawVolume {
		rawVolume = maxRawVolume
	}
	state.Volume = float64(rawVolume) / maxRawVolume
	state.Muted = rawVolume == 0

	if meta, hasMeta := status.Meta(); hasMeta {
		state.Title = metaField(meta, "title", "filename")
		state.Artist = metaField(meta, "artist", "showName")
	}

	return state
}

// intField parses an integer status field, treating anything unparseable as
// zero. VLC writes "position" as a float fraction in some versions, so a
// trailing fractional part is tolerated.
func intField(value string) int {
	if value == "" {
		return 0
	}
	if parsed, parseErr := strconv.Atoi(value); parseErr == nil {
		return parsed
	}
	if parsed, parseErr := strconv.ParseFloat(value, 64); parseErr == nil {
		return int(parsed)
	}
	return 0
}

func metaField(meta Metadata, name string, fallback string) string {
	if value, ok := meta.Get(name); ok && value != "" {
		return value
	}
	if value, ok := meta.Get(fallback); ok && value != "" {
		return value
	}
	return NoMetadata
}
