package node

// formantPreset is the three-formant center frequency table for one
// vowel, in Hz (F1, F2, F3).
type formantPreset struct{ f1, f2, f3 float32 }

var formantPresets = map[string]formantPreset{
	"a": {700, 1220, 2600},
	"e": {400, 1920, 2560},
	"i": {280, 2250, 2890},
	"o": {450, 800, 2830},
	"u": {325, 700, 2530},
}

var formantOrder = []string{"a", "e", "i", "o", "u"}

// Formant runs three parallel bandpass filters tuned to a vowel's
// formant frequencies and mixes them with weights F1*0.5 + F2*0.35 +
// F3*0.15, then crossfades against the dry signal by intensity.
type Formant struct {
	bp1, bp2, bp3 Biquad
}

func NewFormant() *Formant {
	return &Formant{
		bp1: Biquad{Type: BiquadBandPass},
		bp2: Biquad{Type: BiquadBandPass},
		bp3: Biquad{Type: BiquadBandPass},
	}
}

func (f *Formant) ProvidesDelay() bool { return true }

// Process reads signal (0), vowel-position (1, [0,1) indexes into the
// five-vowel table with linear interpolation between neighbors), and
// intensity (2, 0 = dry, 1 = full formant sum).
func (f *Formant) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	pos := in.Get(1)
	intensity := in.Get(2)

	preset := interpolatedFormant(pos)

	const q = float32(10)
	o1 := f.bp1.Process(ctx, Inputs{x, preset.f1, q})
	o2 := f.bp2.Process(ctx, Inputs{x, preset.f2, q})
	o3 := f.bp3.Process(ctx, Inputs{x, preset.f3, q})

	sum := o1*0.5 + o2*0.35 + o3*0.15
	return clampFinite(x*(1-intensity) + sum*intensity)
}

func interpolatedFormant(pos float32) formantPreset {
	n := len(formantOrder)
	if pos < 0 {
		pos = 0
	}
	if pos >= 1 {
		pos = 0.999999
	}
	scaled := pos * float32(n)
	i0 := int(scaled) % n
	i1 := (i0 + 1) % n
	frac := scaled - float32(int(scaled))

	a := formantPresets[formantOrder[i0]]
	b := formantPresets[formantOrder[i1]]
	return formantPreset{
		f1: a.f1 + (b.f1-a.f1)*frac,
		f2: a.f2 + (b.f2-a.f2)*frac,
		f3: a.f3 + (b.f3-a.f3)*frac,
	}
}
