package node

// VoicePool is implemented by phonon/sample.VoiceManager. Triggering a
// voice happens out of band (phonon/bridge pushes new voices directly
// into the pool on a pattern hap's onset); Sampler's only job each
// sample is to ask the pool to mix and advance every currently live
// voice.
type VoicePool interface {
	RenderSample(ctx *Context) float32
}

// Sampler bridges a live VoicePool into the signal graph as an
// ordinary node, so sample playback can be patched through the same
// effects chain as any synth voice (e.g. `sampler("bd sn") # rlpf(800, 0.7)`).
type Sampler struct {
	pool VoicePool
}

func NewSampler(pool VoicePool) *Sampler {
	return &Sampler{pool: pool}
}

func (s *Sampler) ProvidesDelay() bool { return false }

func (s *Sampler) Process(ctx *Context, in Inputs) float32 {
	if s.pool == nil {
		return 0
	}
	return clampFinite(s.pool.RenderSample(ctx))
}
