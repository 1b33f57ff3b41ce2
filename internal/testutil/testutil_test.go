package testutil

import "testing"

func TestImpulse(t *testing.T) {
	s := Impulse(8, 3)
	for i, v := range s {
		want := 0.0
		if i == 3 {
			want = 1
		}

		if v != want {
			t.Fatalf("index %d: got %v, want %v", i, v, want)
		}
	}

	s = Impulse(4, 9)
	for i, v := range s {
		if v != 0 {
			t.Fatalf("out-of-range impulse: index %d = %v", i, v)
		}
	}
}

func TestDCAndOnes(t *testing.T) {
	for i, v := range DC(0.25, 5) {
		if v != 0.25 {
			t.Fatalf("DC index %d = %v", i, v)
		}
	}

	for i, v := range Ones(5) {
		if v != 1 {
			t.Fatalf("Ones index %d = %v", i, v)
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(7, 0.5, 64)
	b := DeterministicNoise(7, 0.5, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}

		if a[i] < -0.5 || a[i] > 0.5 {
			t.Fatalf("index %d: %v outside amplitude", i, a[i])
		}
	}
}

func TestFixedUniformCycles(t *testing.T) {
	f := &FixedUniform{Values: []float64{0.1, 0.9}}

	want := []float64{0.1, 0.9, 0.1, 0.9, 0.1}
	for i, w := range want {
		if got := f.Float64(); got != w {
			t.Fatalf("draw %d: got %v, want %v", i, got, w)
		}
	}

	empty := &FixedUniform{}
	if empty.Float64() != 0 {
		t.Fatal("empty source should return 0")
	}
}
