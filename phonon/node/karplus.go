package node

// Karplus is a Karplus-Strong plucked-string node: a noise burst fills
// a delay line of length sr/f on each rising-edge trigger, then the
// line feeds back through a two-tap moving-average (the string's
// natural low-pass) scaled by a decay multiplier.
type Karplus struct {
	buf       []float32
	write     int
	length    int
	prevTrig  float32
	noise     Noise
}

func NewKarplus(sr int, minFreq float32) *Karplus {
	if minFreq <= 0 {
		minFreq = 40
	}
	n := int(float32(sr)/minFreq) + 2
	return &Karplus{buf: make([]float32, n), noise: Noise{state: 0x9E3779B9}}
}

func (k *Karplus) ProvidesDelay() bool { return true }

// Process reads trigger (0, rising edge plucks), frequency Hz (1),
// decay (2, [0,1)).
func (k *Karplus) Process(ctx *Context, in Inputs) float32 {
	trig := in.Get(0)
	freq := in.Get(1)
	decay := in.Get(2)
	if decay < 0 {
		decay = 0
	} else if decay > 0.999 {
		decay = 0.999
	}

	sr := float32(ctx.SampleRate)
	if freq <= 0 {
		freq = 110
	}
	length := int(sr / freq)
	if length < 2 {
		length = 2
	}
	if length > len(k.buf) {
		length = len(k.buf)
	}
	k.length = length

	if trig > 0.5 && k.prevTrig <= 0.5 {
		for i := 0; i < k.length; i++ {
			k.buf[i] = k.noise.next()
		}
		k.write = 0
	}
	k.prevTrig = trig

	cur := k.buf[k.write]
	next := k.buf[(k.write+1)%k.length]
	avg := (cur + next) / 2 * decay
	k.buf[k.write] = avg
	k.write = (k.write + 1) % k.length

	return clampFinite(cur)
}
