package bridge

import (
	"log/slog"

	"github.com/noisefloor-audio/phonon-go/phonon/midi"
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

// pendingOff is a scheduled NoteOff waiting for its hap's Whole.End to
// arrive.
type pendingOff struct {
	offCycle rational.Rational
	note     uint8
	velocity uint8
}

// MIDIBridge maps a note-number pattern's onsets onto NoteOn/NoteOff
// messages on a bounded output channel (original_source's MIDI output
// path, supplemented into this spec per SPEC_FULL.md §6). A bounded
// channel means a stalled MIDI consumer drops messages rather than
// blocking the audio thread; drops are logged at Warn.
type MIDIBridge struct {
	notes    pattern.Pattern[float64]
	velocity pattern.Pattern[float64]
	channel  uint8
	out      chan<- midi.Message
	pending  []pendingOff
	log      *slog.Logger
}

func NewMIDIBridge(notes, velocity pattern.Pattern[float64], channel uint8, out chan<- midi.Message) *MIDIBridge {
	return &MIDIBridge{
		notes:    notes,
		velocity: velocity,
		channel:  channel,
		out:      out,
		log:      slog.Default().With("component", "midi-bridge"),
	}
}

// Advance emits NoteOn for any onset landing on sample n and NoteOff
// for pending notes whose Whole has ended by sample n.
func (m *MIDIBridge) Advance(n uint64, sr int, cps float64) {
	cur := sampleToCycle(n, sr, cps)

	for _, h := range m.notes.QuerySpan(sampleSpan(n, sr, cps)) {
		if !h.HasOnset() {
			continue
		}
		note := clampMIDI(h.Value)
		vel := clampMIDI(m.paramAt(m.velocity, h.Part.Begin, 100))
		m.send(midi.NewNoteOn(m.channel, note, vel, n))

		if h.Whole != nil {
			m.pending = append(m.pending, pendingOff{offCycle: h.Whole.End, note: note, velocity: vel})
		}
	}

	remaining := m.pending[:0]
	for _, p := range m.pending {
		if !p.offCycle.Greater(cur) {
			m.send(midi.NewNoteOff(m.channel, p.note, p.velocity, n))
			continue
		}
		remaining = append(remaining, p)
	}
	m.pending = remaining
}

func (m *MIDIBridge) paramAt(p pattern.Pattern[float64], t rational.Rational, def float64) float64 {
	haps := p.QuerySpan(rational.NewSpan(t, t.Add(epsilon)))
	if len(haps) == 0 {
		return def
	}
	return haps[0].Value
}

func (m *MIDIBridge) send(msg midi.Message) {
	select {
	case m.out <- msg:
	default:
		m.log.Warn("midi output channel full, dropping message", "message", msg.String())
	}
}

func clampMIDI(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
