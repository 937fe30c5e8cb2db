// Package terminal implements a Backend that renders a live VU-meter /
// bus-activity monitor with tcell, replacing jeebie/backend/terminal's
// pixel-grid Game Boy screen renderer with a level-meter renderer
// driven by phonon/engine.RenderBlock's output instead of a video
// framebuffer. Bar colors are interpolated in Lab space with
// go-colorful (green at low level, red as a bus approaches clipping),
// the gradient jeebie/backend/terminal's styled-cell rendering never
// needed because pixels don't carry a continuous "how loud" dimension.
package terminal

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/noisefloor-audio/phonon-go/phonon/backend"
	"github.com/noisefloor-audio/phonon-go/phonon/diag"
)

const meterWidth = 40

var (
	colorLow  = colorful.Color{R: 0.13, G: 0.75, B: 0.22}
	colorHigh = colorful.Color{R: 0.85, G: 0.1, B: 0.1}
)

// Backend renders a master-level VU meter and, when SetStatus is
// called, one bar per named bus.
type Backend struct {
	screen tcell.Screen
	peak   diag.PeakTracker
	status diag.EngineStatus
	log    *slog.Logger
}

func New() *Backend {
	return &Backend{peak: *diag.NewPeakTracker(0.97)}
}

func (t *Backend) Init(cfg backend.Config) error {
	t.log = slog.Default().With("component", "terminal-backend")

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	t.screen = screen
	return nil
}

// SetStatus updates the per-bus display; cmd/phonon calls this once
// per block alongside Write, using whatever diag.Counters/PeakTracker
// state the engine exposes.
func (t *Backend) SetStatus(status diag.EngineStatus) {
	t.status = status
}

func (t *Backend) Write(block []float32) error {
	var peak float32
	for _, v := range block {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	t.peak.Observe(peak)

	t.drainEvents()
	t.render()
	return nil
}

func (t *Backend) drainEvents() {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				t.log.Info("terminal backend: quit requested")
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Backend) render() {
	t.screen.Clear()
	drawLabel(t.screen, 0, 0, fmt.Sprintf("phonon — cps=%.2f  cycle=%.3f", t.status.CPS, t.status.Cycle), tcell.StyleDefault.Foreground(tcell.ColorYellow))
	drawMeter(t.screen, 0, 2, "master", t.peak.Peak())

	row := 4
	for _, bus := range t.status.Buses {
		drawMeter(t.screen, 0, row, bus.Name, bus.Peak)
		row++
	}

	drawLabel(t.screen, 0, row+1, fmt.Sprintf("voices %d/%d  anomalies(nan=%d inf=%d clamp=%d)",
		t.status.VoicesUsed, t.status.VoicesUsed+t.status.VoicesFree,
		t.status.Anomalies.NaNClamped, t.status.Anomalies.InfClamped, t.status.Anomalies.OverflowClamped),
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	t.screen.Show()
}

func drawLabel(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawMeter(screen tcell.Screen, x, y int, name string, level float32) {
	drawLabel(screen, x, y, fmt.Sprintf("%-10s", name), tcell.StyleDefault)
	filled := int(clamp01(level) * meterWidth)
	for i := 0; i < meterWidth; i++ {
		ch := ' '
		style := tcell.StyleDefault
		if i < filled {
			ch = '█'
			style = tcell.StyleDefault.Foreground(gradientColor(float64(i) / meterWidth))
		}
		screen.SetContent(x+11+i, y, ch, nil, style)
	}
}

func gradientColor(t float64) tcell.Color {
	c := colorLow.BlendLab(colorHigh, clampf(t, 0, 1))
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (t *Backend) Cleanup() error {
	t.screen.Fini()
	return nil
}
