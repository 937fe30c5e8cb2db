package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

func testBank() *Bank {
	return NewBank(func(name string) ([]float32, error) {
		buf := make([]float32, 100)
		for i := range buf {
			buf[i] = 1
		}
		return buf, nil
	})
}

func TestTriggerAllocatesAndRendersVoice(t *testing.T) {
	vm := NewVoiceManager(testBank())
	vm.Trigger("bd", 1, 0, 1, 0, 0.001, 0.1)

	ctx := &node.Context{SampleRate: 44100}
	total := float32(0)
	for i := 0; i < 10; i++ {
		total += vm.RenderSample(ctx)
	}
	assert.Greater(t, total, float32(0))
}

func TestCutGroupReleasesPreviousVoice(t *testing.T) {
	vm := NewVoiceManager(testBank())
	vm.Trigger("hh", 1, 0, 0, 1, 0.001, 0.1)
	ctx := &node.Context{SampleRate: 44100}
	// let the first voice reach full amplitude
	for i := 0; i < 50; i++ {
		vm.RenderSample(ctx)
	}

	vm.Trigger("hh", 1, 0, 0, 1, 0.001, 0.1)
	require.True(t, vm.voices[0].releasing)
}

func TestVoicePoolStealsOldestWhenExhausted(t *testing.T) {
	vm := NewVoiceManager(testBank())
	for i := 0; i < poolSize; i++ {
		vm.Trigger("bd", 1, 0, 1, 0, 0.001, 0.1)
	}
	assert.Empty(t, vm.free)

	// one more trigger must steal rather than silently drop.
	vm.Trigger("bd", 1, 0, 1, 0, 0.001, 0.1)
	active := 0
	for _, v := range vm.voices {
		if v.active {
			active++
		}
	}
	assert.Equal(t, poolSize, active)
}
