package sample

import (
	"log/slog"

	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

const poolSize = 64

// Voice is one playing instance of a sample. ReadPos advances by Speed
// every sample; the voice is live while ReadPos is within the sample's
// length and its amplitude envelope hasn't finished release.
type Voice struct {
	active    bool
	buf       []float32
	readPos   float32
	speed     float32
	gain      float32
	pan       float32
	cutGroup  int
	env       node.Envelope
	attack    float32
	release   float32
	releasing bool
	age       uint64
}

// VoiceManager is a fixed-capacity arena of voices plus a free list,
// so triggering a voice never allocates on the audio path. Cut groups
// are scanned linearly on trigger, acceptable per Design Note §9 for
// the pool's bounded size.
type VoiceManager struct {
	bank   *Bank
	voices [poolSize]Voice
	free   []int
	clock  uint64
	log    *slog.Logger
}

func NewVoiceManager(bank *Bank) *VoiceManager {
	vm := &VoiceManager{bank: bank, log: slog.Default().With("component", "voices")}
	vm.free = make([]int, 0, poolSize)
	for i := poolSize - 1; i >= 0; i-- {
		vm.free = append(vm.free, i)
	}
	return vm
}

// Trigger starts a new voice playing sampleName. cutGroup==0 means no
// cut group. attack/release are seconds for the voice's amplitude
// envelope (spec's default 1ms/100ms policy lives in the caller).
func (vm *VoiceManager) Trigger(sampleName string, gain, pan, speed float32, cutGroup int, attack, release float32) {
	buf, err := vm.bank.Get(sampleName)
	if err != nil || len(buf) == 0 {
		return
	}

	if cutGroup != 0 {
		vm.releaseCutGroup(cutGroup)
	}

	idx := vm.allocate()
	if idx < 0 {
		return
	}

	vm.clock++
	v := &vm.voices[idx]
	*v = Voice{
		active:   true,
		buf:      buf,
		speed:    speed,
		gain:     gain,
		pan:      pan,
		cutGroup: cutGroup,
		age:      vm.clock,
		attack:   attack,
		release:  release,
		env:      node.Envelope{Mode: node.EnvModeAR},
	}
}

// Usage reports how many voices are currently playing versus free, for
// monitoring backends.
func (vm *VoiceManager) Usage() (used, free int) {
	free = len(vm.free)
	return poolSize - free, free
}

// allocate returns a free voice index, stealing the oldest live voice
// when the pool is exhausted.
func (vm *VoiceManager) allocate() int {
	if n := len(vm.free); n > 0 {
		idx := vm.free[n-1]
		vm.free = vm.free[:n-1]
		return idx
	}

	oldest := -1
	var oldestAge uint64 = ^uint64(0)
	for i := range vm.voices {
		if vm.voices[i].active && vm.voices[i].age < oldestAge {
			oldest = i
			oldestAge = vm.voices[i].age
		}
	}
	if oldest >= 0 {
		vm.log.Debug("voice pool exhausted, stealing oldest", "index", oldest)
	}
	return oldest
}

// releaseCutGroup fast-releases (<=5ms) every active voice sharing
// cutGroup, per spec §4.6's cut-group voice-stealing policy.
func (vm *VoiceManager) releaseCutGroup(cutGroup int) {
	for i := range vm.voices {
		v := &vm.voices[i]
		if v.active && v.cutGroup == cutGroup && !v.releasing {
			v.releasing = true
		}
	}
}

// RenderSample mixes every live voice's next sample and advances their
// read position and envelope by one sample, retiring voices that have
// exhausted their buffer or finished release. It implements
// node.VoicePool so a Sampler DSP node can pull from it each sample.
func (vm *VoiceManager) RenderSample(ctx *node.Context) float32 {
	var mix float32
	for i := range vm.voices {
		v := &vm.voices[i]
		if !v.active {
			continue
		}

		releaseTime := v.release
		if v.releasing {
			releaseTime = 0.005
		}
		gate := float32(1)
		if v.releasing {
			gate = 0
		}
		env := v.env.Process(ctx, node.Inputs{gate, v.attack, 0, 1, releaseTime})

		i0 := int(v.readPos)
		if i0 >= len(v.buf) || (v.releasing && env == 0 && v.env.Stage == node.EnvIdle) {
			v.active = false
			vm.free = append(vm.free, i)
			continue
		}

		sample := v.buf[i0]
		mix += sample * env * v.gain

		v.readPos += v.speed
		if v.readPos >= float32(len(v.buf)) {
			v.active = false
			vm.free = append(vm.free, i)
		}
	}
	return mix
}
