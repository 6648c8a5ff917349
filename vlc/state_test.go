package vlc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusWithMeta(entries ...Info) Status {
	return Status{
		Information: Information{
			Categories: []Category{
				{Name: "meta", Info: entries},
			},
		},
	}
}

func TestNormalizeVolumeFraction(t *testing.T) {
	// Every raw volume value maps to its fraction of 256, and only zero
	// counts as muted.
	for rawVolume := 0; rawVolume <= 256; rawVolume++ {
		state := Normalize(Status{Volume: fmt.Sprintf("%d", rawVolume)})
		assert.Equal(t, float64(rawVolume)/256, state.Volume, "raw volume %d", rawVolume)
		assert.Equal(t, rawVolume == 0, state.Muted, "raw volume %d", rawVolume)
	}
}

func TestNormalizeVolumeClamped(t *testing.T) {
	state := Normalize(Status{Volume: "512"})
	assert.Equal(t, 1.0, state.Volume)
	assert.False(t, state.Muted)

	state = Normalize(Status{Volume: "-20"})
	assert.Equal(t, 0.0, state.Volume)
	assert.True(t, state.Muted)
}

func TestNormalizePlaybackState(t *testing.T) {
	tests := []struct {
		rawState string
		want     PlaybackState
	}{
		{"playing", StatePlaying},
		{"paused", StatePaused},
		{"stopped", StateIdle},
		{"buffering", StateIdle},
		{"", StateIdle},
	}
	for _, tt := range tests {
		t.Run("state "+tt.rawState, func(t *testing.T) {
			state := Normalize(Status{State: tt.rawState})
			assert.Equal(t, tt.want, state.Playback)
		})
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	// A document with nothing in it must degrade to defaults, never fail.
	state := Normalize(Status{})
	assert.Equal(t, StateIdle, state.Playback)
	assert.Equal(t, 0, state.Position)
	assert.Equal(t, 0, state.Duration)
	assert.Equal(t, 0.0, state.Volume)
	assert.True(t, state.Muted)
	assert.Equal(t, NoMetadata, state.Title)
	assert.Equal(t, NoMetadata, state.Artist)
}

func TestNormalizeNonNumericFields(t *testing.T) {
	state := Normalize(Status{Time: "soon", Length: "??", Volume: "loud"})
	assert.Equal(t, 0, state.Position)
	assert.Equal(t, 0, state.Duration)
	assert.Equal(t, 0.0, state.Volume)
	assert.True(t, state.Muted)
}

func TestNormalizePositionAndDuration(t *testing.T) {
	state := Normalize(Status{Time: "42", Length: "180"})
	assert.Equal(t, 42, state.Position)
	assert.Equal(t, 180, state.Duration)

	// "position" is only read when "time" is absent.
	state = Normalize(Status{Position: "17", Length: "180"})
	assert.Equal(t, 17, state.Position)

	state = Normalize(Status{Time: "42", Position: "17"})
	assert.Equal(t, 42, state.Position)

	// Fractional position values are truncated to whole seconds.
	state = Normalize(Status{Position: "17.8"})
	assert.Equal(t, 17, state.Position)
}

func TestNormalizeMetadata(t *testing.T) {
	state := Normalize(statusWithMeta(
		Info{Name: "title", Text: "Song A"},
		Info{Name: "artist", Text: "Artist B"},
	))
	assert.Equal(t, "Song A", state.Title)
	assert.Equal(t, "Artist B", state.Artist)
}

func TestNormalizeMetadataFallbacks(t *testing.T) {
	// filename backs up title, showName backs up artist.
	state := Normalize(statusWithMeta(
		Info{Name: "filename", Text: "track01.mp3"},
		Info{Name: "showName", Text: "Some Show"},
	))
	assert.Equal(t, "track01.mp3", state.Title)
	assert.Equal(t, "Some Show", state.Artist)
}

func TestNormalizeNoMetaCategory(t *testing.T) {
	status := Status{
		Information: Information{
			Categories: []Category{
				{Name: "Stream 0", Info: []Info{{Name: "Codec", Text: "mp3"}}},
			},
		},
	}
	state := Normalize(status)
	assert.Equal(t, NoMetadata, state.Title)
	assert.Equal(t, NoMetadata, state.Artist)
}

func TestMetaLookup(t *testing.T) {
	status := statusWithMeta(Info{Name: "title", Text: "Song A"})
	meta, hasMeta := status.Meta()
	assert.True(t, hasMeta)
	title, ok := meta.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "Song A", title)
	_, ok = meta.Get("artist")
	assert.False(t, ok)

	// No meta category at all is distinguishable from an empty one.
	_, hasMeta = Status{}.Meta()
	assert.False(t, hasMeta)
}

func TestDecodeStatusDocument(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="utf-8"?>
<root>
  <state>playing</state>
  <time>42</time>
  <length>180</length>
  <volume>128</volume>
  <information>
    <category name="meta">
      <info name="title">Song A</info>
      <info name="artist">Artist B</info>
    </category>
    <category name="Stream 0">
      <info name="Codec">mpga</info>
    </category>
  </information>
</root>`)

	status, decodeErr := decodeStatus(doc)
	assert.NoError(t, decodeErr)

	state := Normalize(status)
	assert.Equal(t, StatePlaying, state.Playback)
	assert.Equal(t, 42, state.Position)
	assert.Equal(t, 180, state.Duration)
	assert.Equal(t, 0.5, state.Volume)
	assert.False(t, state.Muted)
	assert.Equal(t, "Song A", state.Title)
	assert.Equal(t, "Artist B", state.Artist)
}

func TestDecodeStatusGarbage(t *testing.T) {
	_, decodeErr := decodeStatus([]byte("not xml at all"))
	assert.Error(t, decodeErr)
}
