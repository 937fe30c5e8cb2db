package node

// EnvStage is one state of the envelope state machine.
type EnvStage int

const (
	EnvIdle EnvStage = iota
	EnvAttack
	EnvDecay
	EnvSustain
	EnvRelease
)

// EnvMode selects AR (attack/release only, decay/sustain skipped) or
// full ADSR.
type EnvMode int

const (
	EnvModeAR EnvMode = iota
	EnvModeADSR
)

// Envelope is a per-voice AR/ADSR state machine. A rising edge on the
// gate input restarts attack from the current level (no click); a
// falling edge jumps straight to release from wherever the envelope
// currently sits.
type Envelope struct {
	Mode EnvMode

	Stage     EnvStage
	Level     float32
	prevGate  float32
	stageTime float32 // seconds elapsed in the current stage
}

func (e *Envelope) ProvidesDelay() bool { return true }

// Process reads gate (0, >0.5 = held), attack seconds (1), decay
// seconds (2), sustain level (3), release seconds (4).
func (e *Envelope) Process(ctx *Context, in Inputs) float32 {
	gate := in.Get(0)
	attack := in.Get(1)
	decay := in.Get(2)
	sustain := in.Get(3)
	release := in.Get(4)

	sr := float32(ctx.SampleRate)
	if sr <= 0 {
		sr = 44100
	}
	dt := 1 / sr

	held := gate > 0.5
	risingEdge := held && e.prevGate <= 0.5
	fallingEdge := !held && e.prevGate > 0.5
	e.prevGate = gate

	if risingEdge {
		e.Stage = EnvAttack
		e.stageTime = 0
	}
	if fallingEdge && e.Stage != EnvIdle {
		e.Stage = EnvRelease
		e.stageTime = 0
	}

	switch e.Stage {
	case EnvIdle:
		e.Level = 0
	case EnvAttack:
		if attack <= 0 {
			e.Level = 1
		} else {
			e.Level += dt / attack
		}
		e.stageTime += dt
		if e.Level >= 1 {
			e.Level = 1
			if e.Mode == EnvModeADSR {
				e.Stage = EnvDecay
			} else {
				e.Stage = EnvSustain
			}
			e.stageTime = 0
		}
	case EnvDecay:
		if decay <= 0 {
			e.Level = sustain
		} else {
			e.Level -= dt * (1 - sustain) / decay
		}
		e.stageTime += dt
		if e.Level <= sustain {
			e.Level = sustain
			e.Stage = EnvSustain
		}
	case EnvSustain:
		if e.Mode == EnvModeADSR {
			e.Level = sustain
		}
		// AR mode holds whatever level attack reached (1.0) until release.
	case EnvRelease:
		if release <= 0 {
			e.Level = 0
		} else {
			e.Level -= dt * e.Level / release
			if e.Level < 0.0005 {
				e.Level = 0
			}
		}
		e.stageTime += dt
		if e.Level <= 0 {
			e.Level = 0
			e.Stage = EnvIdle
		}
	}

	return clampFinite(e.Level)
}
