package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// clip is decoded audio: one float64 slice per channel in -1..1, plus
// the format needed to write it back out unchanged.
type clip struct {
	channels   [][]float64
	sampleRate int
	bitDepth   int
}

func readWAV(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, errors.New("missing format information")
	}

	return &clip{
		channels:   deinterleave(buf.Data, buf.Format.NumChannels, int(dec.BitDepth)),
		sampleRate: buf.Format.SampleRate,
		bitDepth:   int(dec.BitDepth),
	}, nil
}

func writeWAV(path string, c *clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, c.sampleRate, c.bitDepth, len(c.channels), 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(c.channels), SampleRate: c.sampleRate},
		Data:           interleave(c.channels, c.bitDepth),
		SourceBitDepth: c.bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}

// fullScale returns the positive full-scale value for a PCM bit depth.
func fullScale(bitDepth int) (float64, error) {
	if bitDepth < 8 || bitDepth > 32 {
		return 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	return float64(int64(1) << (bitDepth - 1)), nil
}

// deinterleave converts interleaved integer PCM into per-channel floats
// in -1..1. Trailing partial frames are dropped.
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	scale, err := fullScale(bitDepth)
	if err != nil {
		scale = float64(int64(1) << 15)
	}

	frames := len(data) / numChannels
	out := make([][]float64, numChannels)

	for ch := range out {
		out[ch] = make([]float64, frames)
		for i := 0; i < frames; i++ {
			out[ch][i] = float64(data[i*numChannels+ch]) / scale
		}
	}

	return out
}

// interleave converts per-channel floats back to interleaved integer
// PCM, clipping to the representable range.
func interleave(channels [][]float64, bitDepth int) []int {
	scale, err := fullScale(bitDepth)
	if err != nil {
		scale = float64(int64(1) << 15)
	}

	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	out := make([]int, frames*len(channels))

	for ch, samples := range channels {
		for i, v := range samples {
			s := math.Round(v * scale)
			if s > scale-1 {
				s = scale - 1
			}

			if s < -scale {
				s = -scale
			}

			out[i*len(channels)+ch] = int(s)
		}
	}

	return out
}
