package bridge

import (
	"sort"

	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
	"github.com/noisefloor-audio/phonon-go/phonon/rational"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
)

// epsilon is a minimal rational span width, wide enough to pick up a
// hap whose Part begins exactly at the query instant but narrow enough
// to never reach into the next event.
var epsilon = rational.New(1, 1_000_000)

// Params are the per-voice Signals sampled at each SampleEvent onset.
// A nil Pattern falls back to its listed default.
type Params struct {
	Gain, Pan, Speed pattern.Pattern[float64]
	CutGroup         pattern.Pattern[float64]
	Attack, Release  pattern.Pattern[float64]
}

// SampleEvent drives a sample.VoiceManager directly: unlike Held and
// Trigger it does not implement graph.PatternSource, since triggering
// a voice is a side effect rather than a per-sample value (spec §4.5
// "SampleEvent"). The engine calls Advance once per sample alongside
// graph.Step.
type SampleEvent struct {
	names  pattern.Pattern[string]
	params Params
	voices *sample.VoiceManager
}

func NewSampleEvent(names pattern.Pattern[string], params Params, voices *sample.VoiceManager) *SampleEvent {
	return &SampleEvent{names: names, params: params, voices: voices}
}

// Advance queries the name pattern over sample n's own instant and
// triggers one voice per onset found there, in stable (sampleIndex,
// patternIndex) order so simultaneous stacked onsets keep their
// left-to-right Stack order (spec §3.7).
func (s *SampleEvent) Advance(n uint64, sr int, cps float64) {
	haps := s.names.QuerySpan(sampleSpan(n, sr, cps))
	sort.SliceStable(haps, func(i, j int) bool {
		return haps[i].Part.Begin.Less(haps[j].Part.Begin)
	})

	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		t := h.Part.Begin
		gain := s.paramAt(s.params.Gain, t, 1)
		pan := s.paramAt(s.params.Pan, t, 0)
		speed := s.paramAt(s.params.Speed, t, 1)
		cutGroup := int(s.paramAt(s.params.CutGroup, t, 0))
		attack := s.paramAt(s.params.Attack, t, 0.001)
		release := s.paramAt(s.params.Release, t, 0.1)

		s.voices.Trigger(h.Value, float32(gain), float32(pan), float32(speed), cutGroup, float32(attack), float32(release))
	}
}

func (s *SampleEvent) paramAt(p pattern.Pattern[float64], t rational.Rational, def float64) float64 {
	haps := p.QuerySpan(rational.NewSpan(t, t.Add(epsilon)))
	if len(haps) == 0 {
		return def
	}
	return haps[0].Value
}
