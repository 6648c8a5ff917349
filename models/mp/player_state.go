package mp

import (
	"github.com/Artiqlate/nicosia/vlc"
)

// PlayerState is the wire form of one normalized playback snapshot.
type PlayerState struct {
	Name     string  `msgpack:"name"`
	State    string  `msgpack:"state"`
	Position int     `msgpack:"position"`
	Duration int     `msgpack:"duration"`
	Volume   float64 `msgpack:"volume"`
	Muted    bool    `msgpack:"muted"`
	Title    string  `msgpack:"title"`
	Artist   string  `msgpack:"artist"`
}

// PlayerStateFromVLC converts a normalized snapshot for transmission.
func PlayerStateFromVLC(name string, state vlc.State) PlayerState {
	return PlayerState{
		Name:     name,
		State:    string(state.Playback),
		Position: state.Position,
		Duration: state.Duration,
		Volume:   state.Volume,
		Muted:    state.Muted,
		Title:    state.Title,
		Artist:   state.Artist,
	}
}

// SupportedFeatures flags the operations the bridge can drive on the remote
// player, reported alongside the snapshot on the initial handshake.
type SupportedFeatures struct {
	Play          bool `msgpack:"play"`
	Pause         bool `msgpack:"pause"`
	Stop          bool `msgpack:"stop"`
	NextTrack     bool `msgpack:"next_track"`
	PreviousTrack bool `msgpack:"previous_track"`
	Seek          bool `msgpack:"seek"`
	VolumeSet     bool `msgpack:"volume_set"`
	VolumeMute    bool `msgpack:"volume_mute"`
	ClearPlaylist bool `msgpack:"clear_playlist"`
}

func AllFeatures() SupportedFeatures {
	return SupportedFeatures{
		Play:          true,
		Pause:         true,
		Stop:          true,
		NextTrack:     true,
		PreviousTrack: true,
		Seek:          true,
		VolumeSet:     true,
		VolumeMute:    true,
		ClearPlaylist: true,
	}
}
