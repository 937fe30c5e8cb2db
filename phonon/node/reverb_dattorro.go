package node

// ReverbDattorro follows the outline of Jon Dattorro's plate reverb: a
// four-stage input diffusion all-pass chain feeding two cross-coupled
// tanks, each tank being all-pass -> delay -> one-pole damping low-pass,
// with each tank's damped output fed into the other's input. The tanks
// have no second all-pass or delay stage after the damping filter.
type ReverbDattorro struct {
	diffusion [4]allpassDelay
	tankA     dattorroTank
	tankB     dattorroTank
}

// allpassDelay is a delay-line all-pass (Schroeder form), distinct from
// the fixed-coefficient allpassStage used by the Hilbert transformer:
// its coefficient and delay length are run-time parameters.
type allpassDelay struct {
	buf    []float32
	write  int
	coeff  float32
}

func newAllpassDelay(samples int, coeff float32) allpassDelay {
	if samples < 1 {
		samples = 1
	}
	return allpassDelay{buf: make([]float32, samples), coeff: coeff}
}

func (a *allpassDelay) process(x float32) float32 {
	delayed := a.buf[a.write]
	y := -a.coeff*x + delayed
	a.buf[a.write] = x + a.coeff*delayed
	a.write = (a.write + 1) % len(a.buf)
	return y
}

type dattorroTank struct {
	ap    allpassDelay
	delay []float32
	write int
	lpf   float32 // one-pole damping state
}

func newDattorroTank(sr int, apSamples, delaySamples int, apCoeff float32) dattorroTank {
	return dattorroTank{
		ap:    newAllpassDelay(apSamples, apCoeff),
		delay: make([]float32, delaySamples),
	}
}

func (t *dattorroTank) process(x, damping float32) float32 {
	diffused := t.ap.process(x)
	out := t.delay[t.write]
	t.lpf = out*(1-damping) + t.lpf*damping
	t.delay[t.write] = diffused
	t.write = (t.write + 1) % len(t.delay)
	return t.lpf
}

func NewReverbDattorro(sr int) *ReverbDattorro {
	r := &ReverbDattorro{}
	// These lengths (scaled from Dattorro's published plate constants to
	// an arbitrary sample rate) keep the two tanks' delay times coprime
	// enough to avoid audible periodicity.
	scale := float32(sr) / 29761
	r.diffusion = [4]allpassDelay{
		newAllpassDelay(int(142*scale), 0.75),
		newAllpassDelay(int(107*scale), 0.75),
		newAllpassDelay(int(379*scale), 0.625),
		newAllpassDelay(int(277*scale), 0.625),
	}
	r.tankA = newDattorroTank(sr, int(672*scale), int(4453*scale), 0.7)
	r.tankB = newDattorroTank(sr, int(908*scale), int(4217*scale), 0.7)
	return r
}

func (r *ReverbDattorro) ProvidesDelay() bool { return true }

// Process reads signal (0), damping [0,1] (1), mix (2).
func (r *ReverbDattorro) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	damping := in.Get(1)
	mix := in.Get(2)

	diffused := x
	for i := range r.diffusion {
		diffused = r.diffusion[i].process(diffused)
	}

	a := r.tankA.process(diffused+r.tankB.lpf*0.5, damping)
	b := r.tankB.process(diffused+r.tankA.lpf*0.5, damping)

	wet := (a + b) / 2
	return clampFinite(x*(1-mix) + wet*mix)
}
