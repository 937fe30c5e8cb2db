// Package sample implements the sample bank cache and the polyphonic
// voice manager: the arena of live sample-playback voices a pattern's
// "s"-style events trigger into.
package sample

import (
	"fmt"
	"log/slog"
	"sync"
)

// Resolver decodes a sample name into its f32 PCM buffer. WAV (or any
// other format) decoding is an external collaborator; the bank only
// ever calls this function and caches its result.
type Resolver func(name string) ([]float32, error)

// ErrSampleNotFound wraps a failed Resolver lookup; the caller's
// policy (per the engine) is to log and degrade the triggering voice
// to silence rather than abort.
type ErrSampleNotFound struct {
	Name string
	Err  error
}

func (e *ErrSampleNotFound) Error() string {
	return fmt.Sprintf("sample: %q not found: %v", e.Name, e.Err)
}
func (e *ErrSampleNotFound) Unwrap() error { return e.Err }

type cacheEntry struct {
	once sync.Once
	buf  []float32
	err  error
}

// Bank is a process-wide cache mapping sample name to an immutable PCM
// buffer. Lookups of the same name from concurrent callers (control
// thread preparing a new graph while the audio thread renders) block
// on the same sync.Once rather than decoding twice.
type Bank struct {
	resolve Resolver
	mu      sync.Mutex
	entries map[string]*cacheEntry
	log     *slog.Logger
}

// NewBank creates a bank backed by resolve for cache misses.
func NewBank(resolve Resolver) *Bank {
	return &Bank{
		resolve: resolve,
		entries: make(map[string]*cacheEntry),
		log:     slog.Default().With("component", "sample"),
	}
}

// Get returns the named sample's buffer, decoding and caching it on
// first use. A failed resolve is cached too, so a missing sample name
// referenced by a fast pattern doesn't hammer the filesystem.
func (b *Bank) Get(name string) ([]float32, error) {
	b.mu.Lock()
	e, ok := b.entries[name]
	if !ok {
		e = &cacheEntry{}
		b.entries[name] = e
	}
	b.mu.Unlock()

	e.once.Do(func() {
		buf, err := b.resolve(name)
		if err != nil {
			b.log.Warn("sample load failed, degrading to silence", "name", name, "error", err)
			e.err = &ErrSampleNotFound{Name: name, Err: err}
			return
		}
		e.buf = buf
	})
	return e.buf, e.err
}

// Preload eagerly decodes names, surfacing the first failure. Useful
// at startup to fail fast on an obviously missing sample directory
// rather than discover it mid-performance.
func (b *Bank) Preload(names []string) error {
	for _, n := range names {
		if _, err := b.Get(n); err != nil {
			return err
		}
	}
	return nil
}
