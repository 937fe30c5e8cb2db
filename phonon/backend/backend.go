// Package backend defines the output-device contract phonon/engine's
// rendered blocks are delivered to: an audio device, a raw-PCM writer,
// or a terminal monitor. Mirrors the teacher's Backend interface
// (jeebie/backend), with rendered audio blocks in place of video
// frames and no input-event collection (the engine has no interactive
// controls to poll).
package backend

// Config configures a Backend before its first Write.
type Config struct {
	SampleRate int
	BlockSize  int
	Title      string
}

// Backend receives one rendered block of mono f32 samples at a time.
type Backend interface {
	Init(cfg Config) error
	Write(block []float32) error
	Cleanup() error
}
