package subsystems

import (
	"github.com/Artiqlate/nicosia/comm"
	"github.com/Artiqlate/nicosia/config"
	media_player "github.com/Artiqlate/nicosia/subsystems/media_player"
)

type MediaPlayerSubsystem interface {
	Setup() error
	Routine()
	Shutdown()
}

// NewMediaPlayerSubsystem builds the media-player subsystem. The backend is
// VLC's HTTP status interface, so it works against any host VLC runs on.
func NewMediaPlayerSubsystem(cfg config.Config, bidirChan *comm.BiDirMessageChannel) (MediaPlayerSubsystem, error) {
	return media_player.NewVLCMediaPlayerSubsystem(cfg, bidirChan), nil
}
