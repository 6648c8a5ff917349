package media_player

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/Artiqlate/nicosia/comm"
	"github.com/Artiqlate/nicosia/config"
	"github.com/Artiqlate/nicosia/models/mp"
	"github.com/Artiqlate/nicosia/vlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const pausedStatusDoc = `<?xml version="1.0" encoding="utf-8"?>
<root>
  <state>paused</state>
  <time>10</time>
  <length>180</length>
  <volume>128</volume>
</root>`

func testSubsystem(t *testing.T, bidirChan *comm.BiDirMessageChannel) (*VLCMediaPlayerSubsystem, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pausedStatusDoc))
	}))
	t.Cleanup(server.Close)

	serverURL, parseErr := url.Parse(server.URL)
	require.NoError(t, parseErr)
	port, portErr := strconv.Atoi(serverURL.Port())
	require.NoError(t, portErr)

	var cfg config.Config
	cfg.Player.Name = "Test VLC"
	cfg.Player.Host = serverURL.Hostname()
	cfg.Player.Port = port
	cfg.Player.TimeoutS = 2
	// Long interval: tests drive refreshes by hand.
	cfg.Player.PollIntervalMs = 3600000

	sub := NewVLCMediaPlayerSubsystem(cfg, bidirChan)
	sub.logf = t.Logf
	return sub, server
}

func TestSetupPopulatesSnapshot(t *testing.T) {
	sub, _ := testSubsystem(t, comm.NewBiDirMessageChannel())
	require.NoError(t, sub.Setup())

	state := sub.State()
	assert.Equal(t, vlc.StatePaused, state.Playback)
	assert.Equal(t, 10, state.Position)
	assert.Equal(t, 180, state.Duration)
	assert.Equal(t, 0.5, state.Volume)
}

func TestOptimisticUpdateBeforePoll(t *testing.T) {
	sub, _ := testSubsystem(t, comm.NewBiDirMessageChannel())
	require.NoError(t, sub.Setup())
	require.Equal(t, vlc.StatePaused, sub.State().Playback)

	// The dispatch must be visible immediately, before any poll confirms:
	// the mock server keeps reporting "paused".
	sub.dispatch(vlc.CommandPlay)
	assert.Equal(t, vlc.StatePlaying, sub.State().Playback)

	// The next refresh replaces the optimistic state with the polled one.
	newState, changed := sub.refresh()
	assert.True(t, changed)
	assert.Equal(t, vlc.StatePaused, newState.Playback)
}

func TestOptimisticVolumeUpdate(t *testing.T) {
	sub, _ := testSubsystem(t, comm.NewBiDirMessageChannel())
	require.NoError(t, sub.Setup())

	sub.dispatchVolume(vlc.MuteCommand(true), 0)
	state := sub.State()
	assert.True(t, state.Muted)
	assert.Equal(t, 0.0, state.Volume)
}

func TestRefreshReportsChange(t *testing.T) {
	sub, _ := testSubsystem(t, comm.NewBiDirMessageChannel())
	require.NoError(t, sub.Setup())

	// Same document, same snapshot: no change event.
	_, changed := sub.refresh()
	assert.False(t, changed)
}

func TestUnreachablePlayerDegrades(t *testing.T) {
	bidirChan := comm.NewBiDirMessageChannel()
	sub, server := testSubsystem(t, bidirChan)
	require.NoError(t, sub.Setup())
	server.Close()

	newState, changed := sub.refresh()
	assert.True(t, changed)
	assert.Equal(t, vlc.EmptyState(), newState)
}

func encodeFrame(t *testing.T, method string, args interface{}) []byte {
	t.Helper()
	var frame []interface{}
	if args == nil {
		frame = []interface{}{method}
	} else {
		frame = []interface{}{method, args}
	}
	data, marshalErr := msgpack.Marshal(frame)
	require.NoError(t, marshalErr)
	return data
}

func TestRoutineVolumeRPC(t *testing.T) {
	bidirChan := comm.NewBiDirMessageChannel()
	sub, _ := testSubsystem(t, bidirChan)
	require.NoError(t, sub.Setup())
	go sub.Routine()
	defer sub.Shutdown()

	bidirChan.InChannel <- encodeFrame(t, "mp:volume", mp.Volume{Level: 0.5})

	select {
	case reply := <-bidirChan.OutChannel:
		assert.Equal(t, "mp:rvolume", reply.Method)
		playerState, ok := reply.Args.(*mp.PlayerState)
		require.True(t, ok)
		assert.Equal(t, 0.5, playerState.Volume)
		assert.False(t, playerState.Muted)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply from routine")
	}
}

func TestShutdownAfterInBandClose(t *testing.T) {
	bidirChan := comm.NewBiDirMessageChannel()
	sub, _ := testSubsystem(t, bidirChan)
	require.NoError(t, sub.Setup())
	go sub.Routine()

	bidirChan.InChannel <- encodeFrame(t, "mp:close", nil)

	// The poll loop goes down with the routine.
	select {
	case <-sub.pollLoopBreak:
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop kept running after close")
	}

	// Shutdown must not wait on a routine that already exited.
	shutdownDone := make(chan struct{})
	go func() {
		sub.Shutdown()
		close(shutdownDone)
	}()
	select {
	case <-shutdownDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown blocked after routine exit")
	}
}

func TestRoutineStatusRPC(t *testing.T) {
	bidirChan := comm.NewBiDirMessageChannel()
	sub, _ := testSubsystem(t, bidirChan)
	require.NoError(t, sub.Setup())
	go sub.Routine()
	defer sub.Shutdown()

	bidirChan.InChannel <- encodeFrame(t, "mp:status", nil)

	select {
	case reply := <-bidirChan.OutChannel:
		assert.Equal(t, "mp:rstatus", reply.Method)
		playerState, ok := reply.Args.(*mp.PlayerState)
		require.True(t, ok)
		assert.Equal(t, "Test VLC", playerState.Name)
		assert.Equal(t, string(vlc.StatePaused), playerState.State)
		assert.Equal(t, 180, playerState.Duration)
	case <-time.After(5 * time.Second):
		t.Fatal("no reply from routine")
	}
}
