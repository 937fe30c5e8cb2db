// Package config holds the small set of values the engine needs at
// startup, populated from CLI flags by cmd/phonon, mirroring how
// cmd/jeebie/main.go threads its flag table into the emulator.
package config

// Config is the engine's startup configuration.
type Config struct {
	SampleRate    int
	InitialCPS    float64
	VoicePoolSize int
	SampleDir     string
}

// Default returns the engine's baseline configuration.
func Default() Config {
	return Config{
		SampleRate:    44100,
		InitialCPS:    0.5,
		VoicePoolSize: 64,
		SampleDir:     "./samples",
	}
}
