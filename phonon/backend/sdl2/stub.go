//go:build !sdl2

// Stub build of the sdl2 backend for default (non-sdl2-tagged) builds,
// mirroring jeebie/backend/sdl2_stub.go.
package sdl2

import (
	"fmt"

	"github.com/noisefloor-audio/phonon-go/phonon/backend"
)

type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Init(cfg backend.Config) error {
	return fmt.Errorf("sdl2 backend not available - compile with -tags sdl2 and install SDL2 development libraries")
}

func (b *Backend) Write(block []float32) error {
	return fmt.Errorf("sdl2 backend not available")
}

func (b *Backend) Cleanup() error { return nil }
