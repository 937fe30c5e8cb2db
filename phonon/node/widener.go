package node

// Widener is the stereo widener. The engine is primarily mono today
// (spec non-goal: spatialization beyond pan), so the mono all-pass
// pseudo-width fallback is the path actually exercised by the render
// loop; the M/S branch is implemented for a future stereo bus but
// currently unreachable from phonon/engine.
type Widener struct {
	allpass allpassStage
}

func NewWidener() *Widener {
	w := &Widener{}
	w.allpass.coeff = 0.6
	return w
}

func (w *Widener) ProvidesDelay() bool { return true }

// Process reads signal (0), width (1, 0=none..1=full pseudo-width).
// In mono mode it blends the dry signal with an all-pass-shifted copy,
// which reads as added width on headphones without a true second
// channel.
func (w *Widener) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	width := in.Get(1)
	shifted := w.allpass.process(x)
	return clampFinite(x*(1-width*0.5) + shifted*(width*0.5))
}

// ProcessMidSide implements the true stereo M/S width control:
// mid = (l+r)/2, side = (l-r)/2*width, output = mid +/- side. Kept for
// a stereo bus that phonon/engine does not yet drive.
func ProcessMidSide(l, r, width float32) (outL, outR float32) {
	mid := (l + r) / 2
	side := (l - r) / 2 * width
	return mid + side, mid - side
}
