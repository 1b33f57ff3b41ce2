package decay

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-grain/internal/testutil"
)

func TestNewStereoPropagatesValidation(t *testing.T) {
	if _, err := NewStereo(nil); err == nil {
		t.Fatal("expected error for empty ladder")
	}
}

func TestStereoNeutralPassThrough(t *testing.T) {
	s, err := NewStereo([]int{64})
	if err != nil {
		t.Fatal(err)
	}

	inL := testutil.Ones(1024)
	inR := testutil.Ones(1024)
	outL := make([]float64, 1024)
	outR := make([]float64, 1024)

	if err := s.Process(inL, inR, outL, outR); err != nil {
		t.Fatal(err)
	}

	testutil.RequireAllNear(t, outL[160:], 1.0, 1e-9)
	testutil.RequireAllNear(t, outR[160:], 1.0, 1e-9)
}

func TestStereoChannelsDecorrelate(t *testing.T) {
	s, err := NewStereo([]int{64})
	if err != nil {
		t.Fatal(err)
	}

	params := DefaultParameters()
	params.Fuzz = 1.0
	s.SetParams(params)

	in := testutil.DeterministicNoise(3, 0.5, 2048)
	outL := make([]float64, len(in))
	outR := make([]float64, len(in))

	if err := s.Process(in, in, outL, outR); err != nil {
		t.Fatal(err)
	}

	identical := true
	for i := range outL {
		if outL[i] != outR[i] {
			identical = false
			break
		}
	}

	if identical {
		t.Fatal("channels share a random stream")
	}
}

func TestStereoSharedState(t *testing.T) {
	s, err := NewStereo([]int{32, 64})
	if err != nil {
		t.Fatal(err)
	}

	params := DefaultParameters()
	params.GrainSelect = 1.0
	s.SetParams(params)

	if s.Params() != params {
		t.Fatalf("params: got %+v", s.Params())
	}

	if s.Left().GrainSize() != 64 || s.Right().GrainSize() != 64 {
		t.Fatal("grain switch did not reach both channels")
	}

	if s.Delay() != s.Left().Delay() || s.Delay() != s.Right().Delay() {
		t.Fatal("channel delays diverge")
	}
}

func TestStereoLengthMismatch(t *testing.T) {
	s, err := NewStereo([]int{32})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Process(make([]float64, 8), make([]float64, 8), make([]float64, 7), make([]float64, 8))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}
