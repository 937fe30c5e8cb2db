package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// loadWAV decodes a canonical PCM WAV file into mono f32 samples,
// averaging channels down to mono if the file is stereo. Full WAV
// decoding (float formats, extensible fmt chunks, non-PCM codecs) is
// out of scope (spec §1 lists WAV I/O as an external collaborator);
// this covers the common 16/24/32-bit integer PCM case a sample pack
// ships as.
func loadWAV(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: %s: not a RIFF/WAVE file", path)
	}

	var (
		channels      uint16
		bitsPerSample uint16
		audioFormat   uint16
		dataStart     int
		dataLen       int
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return nil, fmt.Errorf("wav: %s: truncated fmt chunk", path)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			dataStart = body
			dataLen = size
		}

		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if dataStart == 0 || channels == 0 {
		return nil, fmt.Errorf("wav: %s: missing fmt/data chunk", path)
	}
	if audioFormat != 1 {
		return nil, fmt.Errorf("wav: %s: unsupported audio format %d (only PCM)", path, audioFormat)
	}
	if dataStart+dataLen > len(data) {
		dataLen = len(data) - dataStart
	}

	bytesPerSample := int(bitsPerSample) / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("wav: %s: unsupported bit depth %d", path, bitsPerSample)
	}
	frameSize := bytesPerSample * int(channels)
	frames := dataLen / frameSize

	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		base := dataStart + i*frameSize
		var sum float32
		for c := 0; c < int(channels); c++ {
			off := base + c*bytesPerSample
			sum += decodeSample(data[off:off+bytesPerSample], bitsPerSample)
		}
		out[i] = sum / float32(channels)
	}
	return out, nil
}

func decodeSample(b []byte, bits uint16) float32 {
	switch bits {
	case 16:
		v := int16(binary.LittleEndian.Uint16(b))
		return float32(v) / float32(math.MaxInt16)
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= -1 << 24
		}
		return float32(v) / float32(1<<23)
	case 32:
		v := int32(binary.LittleEndian.Uint32(b))
		return float32(v) / float32(math.MaxInt32)
	default:
		return 0
	}
}

// newSampleResolver returns a Resolver that loads "<dir>/<name>.wav",
// matching the teacher's cartridge-path convention of one file per
// named asset rather than a packed archive.
func newSampleResolver(dir string) func(name string) ([]float32, error) {
	return func(name string) ([]float32, error) {
		return loadWAV(filepath.Join(dir, name+".wav"))
	}
}
