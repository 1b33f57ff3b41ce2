package grainsize

import "testing"

func TestGenerateSmallLadder(t *testing.T) {
	sizes := Generate(8, 32, 2)

	want := []int{8, 12, 16, 24, 32}
	if len(sizes) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(sizes), len(want), sizes)
	}

	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("sizes[%d] = %d, want %d (%v)", i, sizes[i], want[i], sizes)
		}
	}
}

func TestGenerateProperties(t *testing.T) {
	for _, divPerOct := range []int{3, 4, 5, 7, 9, 11} {
		sizes := Generate(64, 8192, divPerOct)
		if len(sizes) == 0 {
			t.Fatalf("divPerOct %d: empty ladder", divPerOct)
		}

		prev := 0
		for i, n := range sizes {
			if n < 64 || n > 8192 {
				t.Fatalf("divPerOct %d: sizes[%d] = %d out of range", divPerOct, i, n)
			}

			if n%4 != 0 {
				t.Fatalf("divPerOct %d: sizes[%d] = %d not divisible by 4", divPerOct, i, n)
			}

			if !Factorizable(n) {
				t.Fatalf("divPerOct %d: sizes[%d] = %d has disallowed factors", divPerOct, i, n)
			}

			if n < prev {
				t.Fatalf("divPerOct %d: sizes[%d] = %d breaks ascending order after %d", divPerOct, i, n, prev)
			}

			prev = n
		}
	}
}

func TestGenerateInvalidArgs(t *testing.T) {
	cases := []struct {
		name                   string
		start, end, divPerOct int
	}{
		{"zero start", 0, 32, 2},
		{"end below start", 64, 32, 2},
		{"zero divisions", 8, 32, 0},
	}

	for _, tc := range cases {
		if got := Generate(tc.start, tc.end, tc.divPerOct); got != nil {
			t.Fatalf("%s: got %v, want nil", tc.name, got)
		}
	}
}

func TestFactorizable(t *testing.T) {
	valid := []int{4, 8, 12, 16, 24, 28, 44, 100, 4 * 25, 4 * 121, 4 * 5 * 7, 8192}
	for _, n := range valid {
		if !Factorizable(n) {
			t.Fatalf("Factorizable(%d) = false, want true", n)
		}
	}

	invalid := []int{0, -4, 2, 6, 13 * 4, 4 * 5 * 5 * 5, 4 * 17}
	for _, n := range invalid {
		if Factorizable(n) {
			t.Fatalf("Factorizable(%d) = true, want false", n)
		}
	}
}
