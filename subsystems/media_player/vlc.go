package media_player

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Artiqlate/nicosia/comm"
	"github.com/Artiqlate/nicosia/config"
	"github.com/Artiqlate/nicosia/models"
	"github.com/Artiqlate/nicosia/models/mp"
	"github.com/Artiqlate/nicosia/utils"
	"github.com/Artiqlate/nicosia/vlc"
	"github.com/vmihailenco/msgpack/v5"
)

// VLCMediaPlayerSubsystem is the entity the controlling platform talks to:
// it owns the normalized snapshot of one remote VLC instance and dispatches
// control commands back through the status interface.
type VLCMediaPlayerSubsystem struct {
	logf         func(string, ...interface{})
	name         string
	client       *vlc.Client
	bidirChannel *comm.BiDirMessageChannel
	pollInterval time.Duration
	// Specific requirements. Both channels are closed by Routine on the
	// way out: pollLoopBreak stops PollLoop, routineDone tells Shutdown
	// the routine is already gone.
	pollLoopBreak chan struct{}
	routineDone   chan struct{}

	// stateMu gives the single-flight discipline: a refresh and a command
	// dispatch for the same entity never overlap, and each holds at most
	// one HTTP call in flight.
	stateMu sync.Mutex
	state   vlc.State
}

func NewVLCMediaPlayerSubsystem(cfg config.Config, bidirChan *comm.BiDirMessageChannel) *VLCMediaPlayerSubsystem {
	return &VLCMediaPlayerSubsystem{
		logf: func(s string, i ...interface{}) {
			utils.LogFunc(MediaPlayerSubsystemName, s, i...)
		},
		name: cfg.Player.Name,
		client: vlc.NewClient(
			cfg.Player.Host,
			cfg.Player.Port,
			cfg.Player.Username,
			cfg.Player.Password,
			cfg.Timeout(),
		),
		bidirChannel:  bidirChan,
		pollInterval:  cfg.PollInterval(),
		pollLoopBreak: make(chan struct{}),
		routineDone:   make(chan struct{}),
	}
}

// Setup probes the player once. An unreachable player is logged, not fatal:
// polling keeps going and the snapshot stays at its empty defaults until VLC
// answers.
func (v *VLCMediaPlayerSubsystem) Setup() error {
	status := v.client.Status(context.Background())
	if status.Empty() {
		v.logf("player %q not reachable yet, continuing", v.name)
	} else {
		v.logf("player %q connected (state: %s)", v.name, status.State)
	}
	v.stateMu.Lock()
	v.state = vlc.Normalize(status)
	v.stateMu.Unlock()
	return nil
}

// State returns the current snapshot.
func (v *VLCMediaPlayerSubsystem) State() vlc.State {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	return v.state
}

// refresh polls and replaces the snapshot wholesale, reporting whether it
// changed. A failed poll degrades to the empty state by the same path.
func (v *VLCMediaPlayerSubsystem) refresh() (vlc.State, bool) {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	newState := vlc.Normalize(v.client.Status(context.Background()))
	changed := newState != v.state
	v.state = newState
	return newState, changed
}

// dispatch sends one control command and applies the optimistic update
// before any poll confirms it.
func (v *VLCMediaPlayerSubsystem) dispatch(command string) vlc.State {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	v.client.Command(context.Background(), command)
	v.state = vlc.ApplyCommand(v.state, command)
	return v.state
}

func (v *VLCMediaPlayerSubsystem) dispatchVolume(command string, level float64) vlc.State {
	v.stateMu.Lock()
	defer v.stateMu.Unlock()
	v.client.Command(context.Background(), command)
	v.state = vlc.ApplyVolume(v.state, level)
	return v.state
}

func (v *VLCMediaPlayerSubsystem) sendState(method string, state vlc.State) {
	stateModel := mp.PlayerStateFromVLC(v.name, state)
	v.bidirChannel.OutChannel <- models.Message{Method: MPMethod(method), Args: &stateModel}
}

// PollLoop drives the periodic refresh and pushes a status event whenever
// the snapshot changed.
func (v *VLCMediaPlayerSubsystem) PollLoop() {
	v.logf("Poll Loop: Start (every %s)", v.pollInterval)
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()
pollLoop:
	for {
		select {
		case <-ticker.C:
			newState, changed := v.refresh()
			if changed {
				v.sendState("rstatus", newState)
			}
		case <-v.pollLoopBreak:
			break pollLoop
		}
	}
	v.logf("Poll Loop: Stop")
}

func (v *VLCMediaPlayerSubsystem) Routine() {
	v.logf("Starting")
	defer close(v.routineDone)
	defer close(v.pollLoopBreak)
	if v.bidirChannel.InChannel == nil || v.bidirChannel.OutChannel == nil {
		return
	}
	// Run the poll loop to keep the snapshot fresh and push change events.
	go v.PollLoop()
vlcForRoutine:
	for {
		select {
		case readData := <-v.bidirChannel.InChannel:
			decoder := msgpack.NewDecoder(bytes.NewReader(readData))
			payloadErr := utils.ValidateDecoder(decoder)
			hasArgs := payloadErr == nil

			methodData, decodeErr := decoder.DecodeString()
			if decodeErr != nil {
				v.logf("decodeErr: %v", decodeErr)
				continue vlcForRoutine
			}

			methodWithoutValue, method, methodExists := strings.Cut(methodData, ":")
			if !methodExists {
				method = methodWithoutValue
			}
			switch method {
			case "close":
				break vlcForRoutine
			case "status":
				newState, _ := v.refresh()
				v.sendState("rstatus", newState)
			case "features":
				features := mp.AllFeatures()
				v.bidirChannel.OutChannel <- models.Message{Method: MPMethod("rfeatures"), Args: &features}
			case "play":
				v.sendState("rplay", v.dispatch(vlc.CommandPlay))
			case "pause":
				v.sendState("rpause", v.dispatch(vlc.CommandPause))
			case "playpause":
				// Same VLC command as pause: pl_pause is the toggle.
				v.sendState("rplaypause", v.dispatch(vlc.CommandPause))
			case "stop":
				v.sendState("rstop", v.dispatch(vlc.CommandStop))
			case "fwd":
				v.sendState("rfwd", v.dispatch(vlc.CommandNext))
			case "prv":
				v.sendState("rprv", v.dispatch(vlc.CommandPrevious))
			case "clear":
				v.sendState("rclear", v.dispatch(vlc.CommandClear))
			case "seek":
				var seekArgument mp.Seek
				if !hasArgs {
					v.logf("seek: missing argument")
					continue vlcForRoutine
				}
				if mpParseErr := decoder.Decode(&seekArgument); mpParseErr != nil {
					v.logf("seek::parseErr: %v", mpParseErr)
					continue vlcForRoutine
				}
				v.sendState("rseek", v.dispatch(vlc.SeekCommand(seekArgument.Seconds)))
			case "volume":
				var volumeArgument mp.Volume
				if !hasArgs {
					v.logf("volume: missing argument")
					continue vlcForRoutine
				}
				if mpParseErr := decoder.Decode(&volumeArgument); mpParseErr != nil {
					v.logf("volume::parseErr: %v", mpParseErr)
					continue vlcForRoutine
				}
				v.sendState("rvolume", v.dispatchVolume(
					vlc.VolumeCommand(volumeArgument.Level),
					volumeArgument.Level,
				))
			case "mute":
				var muteArgument mp.Mute
				if !hasArgs {
					v.logf("mute: missing argument")
					continue vlcForRoutine
				}
				if mpParseErr := decoder.Decode(&muteArgument); mpParseErr != nil {
					v.logf("mute::parseErr: %v", mpParseErr)
					continue vlcForRoutine
				}
				level := 0.0
				if !muteArgument.Muted {
					level = 1.0
				}
				v.sendState("rmute", v.dispatchVolume(
					vlc.MuteCommand(muteArgument.Muted),
					level,
				))
			default:
				v.logf("Method: %s unimplemented", method)
			}
		case moduleCommand := <-v.bidirChannel.CommandChannel:
			switch moduleCommand {
			case "close":
				break vlcForRoutine
			}
		}
	}
	v.logf("Stopping")
}

// Shutdown stops the routine, which takes the poll loop down with it. A
// routine that already exited (an in-band close frame) is not waited on.
func (v *VLCMediaPlayerSubsystem) Shutdown() {
	select {
	case v.bidirChannel.CommandChannel <- "close":
	case <-v.routineDone:
	}
}
