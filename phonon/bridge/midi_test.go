package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/midi"
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
)

func TestMIDIBridgeEmitsNoteOnThenNoteOff(t *testing.T) {
	notes := pattern.Pure(60.0)
	out := make(chan midi.Message, 8)
	mb := NewMIDIBridge(notes, pattern.Silence[float64](), 0, out)

	const sr = 4
	const cps = 1.0
	for n := uint64(0); n < sr; n++ {
		mb.Advance(n, sr, cps)
	}
	// the cycle-long note's Whole ends exactly at the boundary, so its
	// NoteOff should be pending until the next cycle starts.
	mb.Advance(sr, sr, cps)

	close(out)
	var msgs []midi.Message
	for m := range out {
		msgs = append(msgs, m)
	}
	require.NotEmpty(t, msgs)
	assert.Equal(t, midi.NoteOn, msgs[0].Kind)
	assert.Equal(t, uint8(60), msgs[0].Data1)

	var sawOff bool
	for _, m := range msgs {
		if m.Kind == midi.NoteOff {
			sawOff = true
		}
	}
	assert.True(t, sawOff, "expected a NoteOff once the note's Whole ended")
}
