// Package headless implements a Backend for batch rendering and
// automated testing: no device, just an optional raw-PCM sink and
// periodic progress logging, adapted from jeebie/backend/headless.go's
// frame-count-driven completion policy (frames there, blocks here).
package headless

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"

	"github.com/noisefloor-audio/phonon-go/phonon/backend"
)

// Backend writes each rendered block as little-endian f32 PCM to out
// (nil discards the audio, useful when only the completion signal
// matters) and calls onDone once maxBlocks have been rendered.
// maxBlocks <= 0 means render indefinitely; Write never signals
// completion in that mode.
type Backend struct {
	out        io.Writer
	maxBlocks  int
	onDone     func()
	blockCount int
	log        *slog.Logger
}

func New(out io.Writer, maxBlocks int, onDone func()) *Backend {
	return &Backend{out: out, maxBlocks: maxBlocks, onDone: onDone}
}

func (h *Backend) Init(cfg backend.Config) error {
	h.log = slog.Default().With("component", "headless-backend")
	h.log.Info("running headless", "max_blocks", h.maxBlocks, "sample_rate", cfg.SampleRate)
	return nil
}

func (h *Backend) Write(block []float32) error {
	h.blockCount++

	if h.out != nil {
		buf := make([]byte, 4*len(block))
		for i, v := range block {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		if _, err := h.out.Write(buf); err != nil {
			return err
		}
	}

	if h.blockCount%50 == 0 {
		h.log.Info("block progress", "completed", h.blockCount, "total", h.maxBlocks)
	}

	if h.maxBlocks > 0 && h.blockCount >= h.maxBlocks {
		h.log.Info("headless render complete", "blocks", h.blockCount)
		if h.onDone != nil {
			h.onDone()
		}
	}
	return nil
}

func (h *Backend) Cleanup() error { return nil }
