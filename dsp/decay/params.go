package decay

import "math"

// Parameters is the full control surface of the effect. All fields are
// plain engine-domain values; see HostParams for the host-facing
// normalized descriptors.
type Parameters struct {
	// GrainSelect picks the grain size from the ladder, 0 selecting the
	// smallest and 1 the largest entry.
	GrainSelect float64

	// Fuzz scales the random phase perturbation, 0 leaving phases
	// untouched and 1 allowing a full-circle deviation.
	Fuzz float64

	// Loss gates bins whose magnitude falls below this fraction of the
	// grain's loudest bin.
	Loss float64

	// GlitchFreq controls how often bins receive an amplitude spike.
	GlitchFreq float64

	// GlitchGain is the maximum amplification of a spiked bin.
	GlitchGain float64

	// DelaySelect picks the ladder entry that pins the reported latency,
	// using the same mapping as GrainSelect.
	DelaySelect float64
}

// DefaultParameters returns the neutral parameter set: smallest grain,
// no mutation, unity glitch gain, latency pinned to the smallest ladder
// entry.
func DefaultParameters() Parameters {
	return Parameters{GlitchGain: 1}
}

// ParamGradient describes how a normalized host value maps onto the
// engine range of a parameter.
type ParamGradient int

const (
	GradientLinear ParamGradient = iota
	GradientExponential
)

// ParamInfo describes one host-facing automation parameter.
type ParamInfo struct {
	Name     string
	Unit     string
	Min      float64
	Max      float64
	Default  float64 // normalized
	Gradient ParamGradient
}

// Denormalize maps a normalized [0, 1] host value onto the parameter's
// engine range.
func (pi ParamInfo) Denormalize(norm float64) float64 {
	if norm < 0 {
		norm = 0
	}

	if norm > 1 {
		norm = 1
	}

	if pi.Gradient == GradientExponential {
		return pi.Min * math.Pow(pi.Max/pi.Min, norm)
	}

	return pi.Min + (pi.Max-pi.Min)*norm
}

// Normalize is the inverse of Denormalize, clamping to [0, 1].
func (pi ParamInfo) Normalize(value float64) float64 {
	var norm float64

	if pi.Gradient == GradientExponential {
		norm = math.Log(value/pi.Min) / math.Log(pi.Max/pi.Min)
	} else {
		norm = (value - pi.Min) / (pi.Max - pi.Min)
	}

	if norm < 0 {
		norm = 0
	}

	if norm > 1 {
		norm = 1
	}

	return norm
}

// Host parameter indices, in automation order.
const (
	ParamGrain = iota
	ParamFuzz
	ParamLoss
	ParamGlitchFreq
	ParamGlitchGain
	ParamDelay

	NumParams
)

// HostParams returns the descriptors for the host-facing automation
// surface. All parameters are unitless linear controls except the glitch
// gain, which sweeps 1..100 exponentially so equal automation steps feel
// like equal loudness steps.
func HostParams() [NumParams]ParamInfo {
	return [NumParams]ParamInfo{
		ParamGrain:      {Name: "grain", Min: 0, Max: 1, Default: 0.5},
		ParamFuzz:       {Name: "fuzz", Min: 0, Max: 1, Default: 0},
		ParamLoss:       {Name: "loss", Min: 0, Max: 1, Default: 0.5},
		ParamGlitchFreq: {Name: "glitch freq", Min: 0, Max: 1, Default: 0.1},
		ParamGlitchGain: {Name: "glitch gain", Unit: "x", Min: 1, Max: 100, Default: 1, Gradient: GradientExponential},
		ParamDelay:      {Name: "delay", Min: 0, Max: 1, Default: 0},
	}
}

// FromNormalized converts a vector of normalized host values into an
// engine Parameters, applying each descriptor's gradient.
func FromNormalized(values [NumParams]float64) Parameters {
	info := HostParams()

	return Parameters{
		GrainSelect: info[ParamGrain].Denormalize(values[ParamGrain]),
		Fuzz:        info[ParamFuzz].Denormalize(values[ParamFuzz]),
		Loss:        info[ParamLoss].Denormalize(values[ParamLoss]),
		GlitchFreq:  info[ParamGlitchFreq].Denormalize(values[ParamGlitchFreq]),
		GlitchGain:  info[ParamGlitchGain].Denormalize(values[ParamGlitchGain]),
		DelaySelect: info[ParamDelay].Denormalize(values[ParamDelay]),
	}
}
