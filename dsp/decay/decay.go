// Package decay implements a granular spectral mangling effect.
//
// The processor slices its input into 75%-overlapping Hann-windowed
// grains, moves each grain to the frequency domain, applies stochastic
// per-bin mutations (amplitude spikes, a relative magnitude gate, phase
// randomization), and rebuilds a continuous stream by overlap-add. The
// grain size can be modulated live across a precomputed ladder of
// transform-friendly sizes without audible discontinuities.
//
// A Processor serves exactly one audio channel and is not safe for
// concurrent use; Process and SetParams must be called from the same
// goroutine. The streaming path performs no allocation: windows, FFT
// plans, ring buffers, and scratch spectra are all built at construction.
package decay

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/cwbudde/algo-grain/dsp/grainsize"
	"github.com/cwbudde/algo-grain/dsp/ringbuf"
	"github.com/cwbudde/algo-grain/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// hopDivisor fixes the hop at a quarter grain (75% overlap).
	hopDivisor = 4

	// analysisGain compensates the energy loss of Hann-squared
	// reconstruction at 75% overlap.
	analysisGain = 2.0

	// peakHeadroom is the margin left above each grain's own peak when
	// its contribution is normalized into the output accumulator.
	peakHeadroom = 1.5

	// glitchProbDivisor scales the glitch-frequency control down to a
	// per-bin probability.
	glitchProbDivisor = 8

	defaultSeed = 1
)

// ErrLengthMismatch is returned by Process when the input and output
// slices differ in length.
var ErrLengthMismatch = errors.New("decay: input and output lengths differ")

// UniformSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type UniformSource interface {
	Float64() float64
}

// grainConfig is the immutable per-ladder-entry state: the analysis/
// synthesis window and the real FFT plan for that size.
type grainConfig struct {
	coeffs []float64
	fft    *fourier.FFT
}

// timingState is the part of the processor state affected by grain and
// delay selection.
type timingState struct {
	grainIndex int
	grainSize  int
	hop        int
	offset     int
	delayComp  int
}

// Processor is the per-channel streaming grain engine.
type Processor struct {
	timing timingState
	sizes  []int
	grains []grainConfig

	inBuf  *ringbuf.Ring[float64]
	outBuf *ringbuf.Ring[float64]

	timeBuf []float64
	freqBuf []complex128
	reBuf   []float64
	imBuf   []float64
	magBuf  []float64

	rng    UniformSource
	params Parameters
}

// DefaultSizes returns the grain-size ladder used by the stock effect:
// nine steps per octave between 64 and 8192 samples.
func DefaultSizes() []int {
	return grainsize.Generate(64, 8192, 9)
}

// NewProcessor creates a processor over the given grain-size ladder. The
// ladder must be non-empty and non-decreasing, and every size must be
// divisible by 4 so the quarter-grain hop stays integral. Duplicate
// sizes are allowed; they represent near-identical ladder spacing.
func NewProcessor(sizes []int) (*Processor, error) {
	if len(sizes) == 0 {
		return nil, errors.New("decay: grain sizes must not be empty")
	}

	for i, n := range sizes {
		if n <= 0 || n%hopDivisor != 0 {
			return nil, fmt.Errorf("decay: grain size must be positive and divisible by %d: %d", hopDivisor, n)
		}

		if i > 0 && n < sizes[i-1] {
			return nil, fmt.Errorf("decay: grain sizes must be non-decreasing: %d after %d", n, sizes[i-1])
		}
	}

	grains := make([]grainConfig, len(sizes))
	for i, n := range sizes {
		coeffs := window.Generate(window.TypeHann, n, window.WithPeriodic())
		if len(coeffs) != n {
			return nil, fmt.Errorf("decay: window generation failed for size %d", n)
		}

		grains[i] = grainConfig{coeffs: coeffs, fft: fourier.NewFFT(n)}
	}

	maxSize := sizes[len(sizes)-1]

	inBuf, err := ringbuf.New[float64](maxSize, true)
	if err != nil {
		return nil, fmt.Errorf("decay: input buffer: %w", err)
	}

	outBuf, err := ringbuf.New[float64](maxSize/hopDivisor*(hopDivisor+1), true)
	if err != nil {
		return nil, fmt.Errorf("decay: output buffer: %w", err)
	}

	bins := maxSize/2 + 1

	return &Processor{
		timing: timingState{
			grainIndex: 0,
			grainSize:  sizes[0],
			hop:        sizes[0] / hopDivisor,
			offset:     0,
			delayComp:  sizes[0] / hopDivisor * (hopDivisor + 1),
		},
		sizes:   append([]int(nil), sizes...),
		grains:  grains,
		inBuf:   inBuf,
		outBuf:  outBuf,
		timeBuf: make([]float64, maxSize),
		freqBuf: make([]complex128, bins),
		reBuf:   make([]float64, bins),
		imBuf:   make([]float64, bins),
		magBuf:  make([]float64, bins),
		rng:     rand.New(rand.NewSource(defaultSeed)),
		params:  DefaultParameters(),
	}, nil
}

// GrainSize returns the size of the currently active grain in samples.
func (p *Processor) GrainSize() int { return p.timing.grainSize }

// Hop returns the current hop in samples (a quarter of the grain size).
func (p *Processor) Hop() int { return p.timing.hop }

// Params returns the most recently applied parameter set.
func (p *Processor) Params() Parameters { return p.params }

// Delay returns the total latency in samples between an input sample and
// its processed counterpart: the grain pipeline's own latency or the
// pinned delay compensation, whichever is larger.
func (p *Processor) Delay() int {
	if d := p.timing.grainSize + p.timing.hop; d > p.timing.delayComp {
		return d
	}

	return p.timing.delayComp
}

// SetRandomSeed replaces the uniform source with a deterministic
// generator seeded with seed.
func (p *Processor) SetRandomSeed(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

// SetUniformSource replaces the engine's uniform source.
func (p *Processor) SetUniformSource(u UniformSource) error {
	if u == nil {
		return errors.New("decay: uniform source must not be nil")
	}

	p.rng = u

	return nil
}

// SetParams applies a new parameter set. Numeric fields take effect at
// the next processed grain; grain and delay selection changes run the
// timing transition (see transitionTiming). SetParams must be called
// between Process calls, never concurrently with one.
func (p *Processor) SetParams(params Parameters) {
	p.timing = transitionTiming(p.timing, p.sizes, p.params, params)
	p.params = params
}

// selectToIndex discretizes a [0, 1] selection control into a ladder
// index.
func selectToIndex(sel float64, count int) int {
	idx := int(sel * float64(count))
	if idx > count-1 {
		idx = count - 1
	}

	if idx < 0 {
		idx = 0
	}

	return idx
}

// transitionTiming computes the timing state that results from applying
// next on top of old. It is pure: streaming state is untouched, so the
// transition rules are testable apart from the hop loop.
//
// A grain switch within a factor of two of the previous size preserves
// the fractional position inside the hop cycle (rounded to the new hop,
// clamped below it); a larger jump has no meaningful phase continuity to
// preserve and resets the cycle. Delay selection recomputes the pinned
// compensation from the selected ladder entry, independent of the active
// grain, so sweeping the grain control does not shift output timing.
func transitionTiming(cur timingState, sizes []int, old, next Parameters) timingState {
	out := cur

	if next.GrainSelect != old.GrainSelect {
		if idx := selectToIndex(next.GrainSelect, len(sizes)); idx != cur.grainIndex {
			out.grainIndex = idx
			out.grainSize = sizes[idx]
			out.hop = out.grainSize / hopDivisor

			diff := out.grainSize - cur.grainSize
			if diff < 0 {
				diff = -diff
			}

			smaller := min(out.grainSize, cur.grainSize)

			if diff > smaller {
				out.offset = 0
			} else {
				hopPhase := float64(cur.offset) / float64(cur.hop)

				out.offset = int(math.Round(hopPhase * float64(out.hop)))
				if out.offset >= out.hop {
					out.offset = out.hop - 1
				}
			}
		}
	}

	if next.DelaySelect != old.DelaySelect {
		idx := selectToIndex(next.DelaySelect, len(sizes))
		out.delayComp = sizes[idx] / hopDivisor * (hopDivisor + 1)
	}

	return out
}

// Process streams len(input) samples through the effect, writing the same
// number of processed samples to output. Input and output must have equal
// length; any length including zero is accepted and a call always runs to
// completion.
func (p *Processor) Process(input, output []float64) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(input), len(output))
	}

	for pos := 0; pos < len(input); {
		n := p.timing.hop - p.timing.offset
		if rest := len(input) - pos; n > rest {
			n = rest
		}

		// The input ring keeps a rolling window of the newest samples;
		// the output ring drains accumulated overlap-add results and
		// zeroes the freed slots for future grains.
		p.inBuf.SlideReplace(input[pos:pos+n], nil)
		p.outBuf.SlideReplace(nil, output[pos:pos+n])

		p.timing.offset += n
		if p.timing.offset >= p.timing.hop {
			p.timing.offset -= p.timing.hop
			p.processGrain()
		}

		pos += n
	}

	return nil
}

// processGrain runs one grain through the analysis/mutation/synthesis
// pipeline and accumulates it into the output ring.
func (p *Processor) processGrain() {
	delay := p.Delay()
	grain := &p.grains[p.timing.grainIndex]
	size := p.timing.grainSize

	timeBuf := p.timeBuf[:size]
	freqBuf := p.freqBuf[:size/2+1]

	// Analysis: newest grain-sized window, Hann-weighted.
	head, tail := p.inBuf.Slices(-size)
	i := 0

	for _, x := range head {
		timeBuf[i] = x * analysisGain * grain.coeffs[i]
		i++
	}

	for _, x := range tail {
		timeBuf[i] = x * analysisGain * grain.coeffs[i]
		i++
	}

	grain.fft.Coefficients(freqBuf, timeBuf)

	// Bin magnitudes, then the grain's loudest bin for relative gating.
	re := p.reBuf[:len(freqBuf)]
	im := p.imBuf[:len(freqBuf)]
	mag := p.magBuf[:len(freqBuf)]

	for k, c := range freqBuf {
		re[k] = real(c)
		im[k] = imag(c)
	}

	vecmath.Magnitude(mag, re, im)

	p.mutateSpectrum(freqBuf, mag, vecmath.MaxAbs(mag))

	// Synthesis: back to time, Hann-weighted and normalized for the
	// unnormalized FFT round trip, tracking the grain's own peak.
	grain.fft.Sequence(timeBuf, freqBuf)

	norm := 1 / float64(size)
	peak := 1.0

	for n := range timeBuf {
		timeBuf[n] *= grain.coeffs[n] * norm

		if a := math.Abs(timeBuf[n]); a > peak {
			peak = a
		}
	}

	// Overlap-add at the configured total delay, self-normalized against
	// this grain's peak so no single grain can clip the accumulator.
	vecmath.ScaleBlockInPlace(timeBuf, 1/(peak*peakHeadroom))

	head, tail = p.outBuf.Slices(delay - size)

	split := len(head)
	if split > size {
		split = size
	}

	vecmath.AddBlockInPlace(head[:split], timeBuf[:split])

	if split < size {
		vecmath.AddBlockInPlace(tail[:size-split], timeBuf[split:])
	}
}

// mutateSpectrum applies the per-bin mutation rules. Exactly one rule
// fires per bin, in priority order: amplitude spike, magnitude gate,
// phase randomization. mag holds the pre-mutation magnitude of each bin;
// maxAmp is the loudest of them. A silent grain (maxAmp == 0) skips the
// gate comparison entirely instead of evaluating an undefined ratio.
func (p *Processor) mutateSpectrum(freqBuf []complex128, mag []float64, maxAmp float64) {
	fuzz := p.params.Fuzz
	loss := p.params.Loss
	glitchProb := p.params.GlitchFreq / glitchProbDivisor
	glitchGain := p.params.GlitchGain

	for k := range freqBuf {
		switch {
		case p.rng.Float64() < glitchProb:
			u := p.rng.Float64()
			freqBuf[k] *= complex(u*u*glitchGain, 0)
		case maxAmp > 0 && mag[k]/maxAmp < loss:
			freqBuf[k] = 0
		case fuzz > 0:
			delta := 2 * math.Pi * p.rng.Float64() * fuzz
			phase := cmplx.Phase(freqBuf[k]) + delta

			sin, cos := math.Sincos(phase)
			freqBuf[k] = complex(mag[k]*cos, mag[k]*sin)
		}
	}
}
