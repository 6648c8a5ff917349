package mp

// Argument models for the media-player RPC methods. Each one is decoded
// from the args element of its frame.

// Volume is the "mp:volume" argument: a 0.0-1.0 level.
type Volume struct {
	Level float64 `msgpack:"level"`
}

// Mute is the "mp:mute" argument.
type Mute struct {
	Muted bool `msgpack:"muted"`
}

// Seek is the "mp:seek" argument: an absolute position in seconds.
type Seek struct {
	Seconds int `msgpack:"seconds"`
}
