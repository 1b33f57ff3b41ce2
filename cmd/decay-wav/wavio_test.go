package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-grain/dsp/decay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeinterleaveInterleaveRoundTrip(t *testing.T) {
	data := []int{100, -100, 200, -200, 300, -300}

	channels := deinterleave(data, 2, 16)
	require.Len(t, channels, 2)
	require.Len(t, channels[0], 3)

	assert.InDelta(t, 100.0/32768.0, channels[0][0], 1e-12)
	assert.InDelta(t, -300.0/32768.0, channels[1][2], 1e-12)

	back := interleave(channels, 16)
	assert.Equal(t, data, back)
}

func TestDeinterleaveDropsPartialFrame(t *testing.T) {
	channels := deinterleave([]int{1, 2, 3, 4, 5}, 2, 16)
	require.Len(t, channels[0], 2)
	require.Len(t, channels[1], 2)
}

func TestInterleaveClips(t *testing.T) {
	out := interleave([][]float64{{2.0, -2.0}}, 16)
	assert.Equal(t, []int{32767, -32768}, out)
}

func TestFullScale(t *testing.T) {
	for depth, want := range map[int]float64{8: 128, 16: 32768, 24: 1 << 23, 32: 1 << 31} {
		got, err := fullScale(depth)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := fullScale(4)
	assert.Error(t, err)
}

func TestWAVFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	const frames = 256

	in := &clip{
		channels:   make([][]float64, 2),
		sampleRate: 44100,
		bitDepth:   16,
	}

	for ch := range in.channels {
		in.channels[ch] = make([]float64, frames)
		for i := range in.channels[ch] {
			in.channels[ch][i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
		}
	}

	require.NoError(t, writeWAV(path, in))

	out, err := readWAV(path)
	require.NoError(t, err)

	require.Equal(t, in.sampleRate, out.sampleRate)
	require.Equal(t, in.bitDepth, out.bitDepth)
	require.Len(t, out.channels, 2)
	require.Len(t, out.channels[0], frames)

	for ch := range in.channels {
		for i := range in.channels[ch] {
			assert.InDelta(t, in.channels[ch][i], out.channels[ch][i], 1.0/16384)
		}
	}
}

func TestRunProcessesFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")

	in := &clip{
		channels:   [][]float64{make([]float64, 4096)},
		sampleRate: 44100,
		bitDepth:   16,
	}

	for i := range in.channels[0] {
		in.channels[0][i] = 0.25 * math.Sin(2*math.Pi*220*float64(i)/44100)
	}

	require.NoError(t, writeWAV(inPath, in))

	var values [decay.NumParams]float64
	for i, pi := range decay.HostParams() {
		values[i] = pi.Default
	}

	require.NoError(t, run(inPath, outPath, values, 1, false, false))

	out, err := readWAV(outPath)
	require.NoError(t, err)
	require.Len(t, out.channels, 1)
	require.Len(t, out.channels[0], 4096)
}
