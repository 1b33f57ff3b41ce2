package decay

// Stereo couples two independent processors sharing one parameter set.
// The channels use separately seeded random streams so the stochastic
// mutations decorrelate between left and right.
type Stereo struct {
	left  *Processor
	right *Processor
}

// NewStereo creates a stereo pair over the given grain-size ladder.
func NewStereo(sizes []int) (*Stereo, error) {
	left, err := NewProcessor(sizes)
	if err != nil {
		return nil, err
	}

	right, err := NewProcessor(sizes)
	if err != nil {
		return nil, err
	}

	right.SetRandomSeed(defaultSeed + 1)

	return &Stereo{left: left, right: right}, nil
}

// SetParams applies the parameter set to both channels.
func (s *Stereo) SetParams(params Parameters) {
	s.left.SetParams(params)
	s.right.SetParams(params)
}

// Params returns the most recently applied parameter set.
func (s *Stereo) Params() Parameters { return s.left.Params() }

// Delay returns the latency in samples, identical for both channels.
func (s *Stereo) Delay() int { return s.left.Delay() }

// Left returns the left-channel processor.
func (s *Stereo) Left() *Processor { return s.left }

// Right returns the right-channel processor.
func (s *Stereo) Right() *Processor { return s.right }

// Process streams both channels. All four slices must share one length.
func (s *Stereo) Process(inL, inR, outL, outR []float64) error {
	if err := s.left.Process(inL, outL); err != nil {
		return err
	}

	return s.right.Process(inR, outR)
}
