package vlc

import (
	"fmt"
	"math"
)

// VLC status-endpoint commands. Each one is appended verbatim as the
// "command" query parameter; VLC parses the &val= suffix itself.
const (
	CommandPlay = "pl_play"
	// CommandPause is a toggle on the VLC side: it pauses a playing
	// playlist and resumes a paused one.
	CommandPause    = "pl_pause"
	CommandStop     = "pl_stop"
	CommandNext     = "pl_next"
	CommandPrevious = "pl_previous"
	CommandClear    = "pl_empty"
)

// VolumeCommand builds the command setting the raw volume for a 0.0-1.0
// level.
func VolumeCommand(level float64) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return fmt.Sprintf("volume&val=%d", int(math.Round(level*maxRawVolume)))
}

// MuteCommand mutes by zeroing the volume. Unmuting restores full volume,
// not the level before the mute: VLC's status interface has no volume
// memory to read it back from.
func MuteCommand(mute bool) string {
	if mute {
		return VolumeCommand(0)
	}
	return VolumeCommand(1)
}

// SeekCommand seeks to an absolute position in seconds.
func SeekCommand(seconds int) string {
	return fmt.Sprintf("seek&val=%d", seconds)
}

// ApplyCommand is the optimistic local update: the state a command is
// expected to leave the player in, applied before the next poll confirms.
// This intentionally favors responsiveness over consistency - the
// controlling platform re-polls shortly after every command.
func ApplyCommand(state State, command string) State {
	switch command {
	case CommandPlay:
		state.Playback = StatePlaying
	case CommandPause:
		// The toggle flip mirrors what VLC will do with the command.
		if state.Playback == StatePaused {
			state.Playback = StatePlaying
		} else {
			state.Playback = StatePaused
		}
	case CommandStop, CommandClear:
		state.Playback = StateIdle
	}
	return state
}

// ApplyVolume is the optimistic update for volume and mute commands.
func ApplyVolume(state State, level float64) State {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	state.Volume = level
	state.Muted = level == 0
	return state
}
