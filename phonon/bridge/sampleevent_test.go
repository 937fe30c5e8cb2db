package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/mini"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
)

func TestSampleEventTriggersVoiceOnOnset(t *testing.T) {
	names, err := mini.Parse("bd sn")
	require.NoError(t, err)

	bank := sample.NewBank(func(name string) ([]float32, error) {
		buf := make([]float32, 10)
		for i := range buf {
			buf[i] = 1
		}
		return buf, nil
	})
	vm := sample.NewVoiceManager(bank)
	se := NewSampleEvent(names, Params{}, vm)

	const sr = 8
	const cps = 1.0
	ctx := &node.Context{SampleRate: sr}
	var total float32
	for n := uint64(0); n < sr; n++ {
		se.Advance(n, sr, cps)
		total += vm.RenderSample(ctx)
	}
	assert.Greater(t, total, float32(0))
}
