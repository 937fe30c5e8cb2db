//go:build sdl2

// Package sdl2 implements a Backend that opens an SDL2 audio device
// and queues rendered blocks to it, adapted from jeebie/backend/sdl2.go
// (which opens an SDL2 window and blits video frames) retargeted from
// the video to the audio subsystem: an SDL_AudioDeviceID replaces the
// window/renderer/texture trio, and QueueAudio replaces blitting.
package sdl2

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/noisefloor-audio/phonon-go/phonon/backend"
)

// Backend streams rendered blocks to the default SDL2 audio output
// device as mono f32 PCM.
type Backend struct {
	device sdl.AudioDeviceID
	buf    []byte
}

func New() *Backend { return &Backend{} }

func (b *Backend) Init(cfg backend.Config) error {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2: init audio: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     int32(cfg.SampleRate),
		Format:   sdl.AUDIO_F32SYS,
		Channels: 1,
		Samples:  uint16(cfg.BlockSize),
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: open audio device: %w", err)
	}
	b.device = device
	sdl.PauseAudioDevice(device, false)
	return nil
}

func (b *Backend) Write(block []float32) error {
	if len(b.buf) != 4*len(block) {
		b.buf = make([]byte, 4*len(block))
	}
	for i, v := range block {
		binary.LittleEndian.PutUint32(b.buf[i*4:], math.Float32bits(v))
	}
	return sdl.QueueAudio(b.device, b.buf)
}

func (b *Backend) Cleanup() error {
	sdl.CloseAudioDevice(b.device)
	sdl.Quit()
	return nil
}
