package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/noisefloor-audio/phonon-go/phonon/backend"
	"github.com/noisefloor-audio/phonon-go/phonon/backend/headless"
	"github.com/noisefloor-audio/phonon-go/phonon/backend/sdl2"
	"github.com/noisefloor-audio/phonon-go/phonon/backend/terminal"
	"github.com/noisefloor-audio/phonon-go/phonon/config"
	"github.com/noisefloor-audio/phonon-go/phonon/dsl"
	"github.com/noisefloor-audio/phonon-go/phonon/engine"
	"github.com/noisefloor-audio/phonon-go/phonon/midi"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
	"github.com/noisefloor-audio/phonon-go/phonon/timing"
)

const blockSize = 512

func main() {
	app := cli.NewApp()
	app.Name = "phonon"
	app.Description = "A live-codeable cyclic pattern and signal-graph audio engine"
	app.Usage = "phonon [options] <program file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "program",
			Usage: "Path to the .phonon program file",
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Output sample rate in Hz",
			Value: config.Default().SampleRate,
		},
		cli.Float64Flag{
			Name:  "cps",
			Usage: "Initial cycles-per-second transport tempo",
			Value: config.Default().InitialCPS,
		},
		cli.StringFlag{
			Name:  "samples",
			Usage: "Directory of .wav sample assets for sampler() calls",
			Value: config.Default().SampleDir,
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a graphical or terminal interface",
		},
		cli.IntFlag{
			Name:  "blocks",
			Usage: "Number of blocks to render in headless mode (required for headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Raw f32 PCM output file in headless mode (default: discard)",
		},
		cli.BoolFlag{
			Name:  "terminal",
			Usage: "Run with the terminal VU-meter interface instead of an audio device",
		},
	}
	app.Action = runEngine

	if err := app.Run(os.Args); err != nil {
		slog.Error("phonon exited with an error", "error", err)
		os.Exit(1)
	}
}

func runEngine(c *cli.Context) error {
	programPath := c.String("program")
	if programPath == "" {
		if c.NArg() > 0 {
			programPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no program file provided")
		}
	}

	src, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	prog, err := dsl.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parsing program: %w", err)
	}

	cfg := config.Default()
	cfg.SampleRate = c.Int("sample-rate")
	cfg.InitialCPS = c.Float64("cps")
	cfg.SampleDir = c.String("samples")

	bank := sample.NewBank(newSampleResolver(cfg.SampleDir))
	voices := sample.NewVoiceManager(bank)
	midiOut := make(chan midi.Message, 256)
	go drainMIDI(midiOut)

	result, err := dsl.Build(prog, cfg.SampleRate, dsl.Deps{Bank: bank, Voices: voices, MIDIOut: midiOut})
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	eng := engine.New(result.Graph, bank, voices)
	eng.SetCPS(cfg.InitialCPS)
	for _, se := range result.SampleEvents {
		eng.AddSampleEvent(se)
	}
	for _, mb := range result.MIDIBridges {
		eng.AddMIDIBridge(mb)
	}

	if c.Bool("headless") {
		return runHeadless(eng, c)
	}

	var be backend.Backend
	if c.Bool("terminal") || !term.IsTerminal(int(os.Stdout.Fd())) {
		be = terminal.New()
	} else {
		be = sdl2.New()
	}

	bcfg := backend.Config{SampleRate: cfg.SampleRate, BlockSize: blockSize, Title: programPath}
	if err := be.Init(bcfg); err != nil {
		return fmt.Errorf("starting backend: %w", err)
	}
	defer be.Cleanup()

	tb, isTerminal := be.(*terminal.Backend)
	limiter := timing.NewAdaptiveLimiter(blockSize, cfg.SampleRate)
	for {
		limiter.WaitForNextBlock()
		block := eng.RenderBlock(blockSize)
		if isTerminal {
			tb.SetStatus(eng.Status())
		}
		if err := be.Write(block); err != nil {
			return fmt.Errorf("writing block: %w", err)
		}
	}
}

// runHeadless renders a fixed number of blocks to a raw-PCM sink (or
// discards them if --out is unset), matching cmd/jeebie's
// --frames-driven headless mode.
func runHeadless(eng *engine.Engine, c *cli.Context) error {
	blocks := c.Int("blocks")
	if blocks <= 0 {
		return errors.New("headless mode requires --blocks option with a positive value")
	}

	var out io.Writer
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	be := headless.New(out, blocks, nil)
	bcfg := backend.Config{SampleRate: c.Int("sample-rate"), BlockSize: blockSize}
	if err := be.Init(bcfg); err != nil {
		return fmt.Errorf("starting headless backend: %w", err)
	}
	defer be.Cleanup()

	// Headless/bounce runs produce blocks as fast as possible rather
	// than in real time.
	limiter := timing.NewNoOpLimiter()
	for i := 0; i < blocks; i++ {
		limiter.WaitForNextBlock()
		block := eng.RenderBlock(blockSize)
		if err := be.Write(block); err != nil {
			return fmt.Errorf("writing block: %w", err)
		}
	}
	return nil
}

func drainMIDI(out <-chan midi.Message) {
	for msg := range out {
		slog.Debug("midi out", "message", msg.String())
	}
}
