// Package grainsize generates ladders of FFT-friendly grain sizes.
//
// Grain size is a continuous user-facing control, so the ladder must be
// dense and close to logarithmically even: sweeping the control should
// never produce an audible jump in grain duration. At the same time every
// size must stay cheap to transform, so candidates are restricted to
// products of small primes.
package grainsize

import (
	"math"
	"sort"
)

// smallPrimes are the optional high factors of a candidate size. Mixed
// radix FFTs handle lots of 2s and 3s well and tolerate up to two factors
// from {5, 7, 11}; 1 stands for an absent factor.
var smallPrimes = [...]int{1, 5, 7, 11}

// Generate returns an ascending ladder of sizes in [start, end], spaced
// as evenly as the candidate set allows at divPerOct steps per octave.
//
// Candidates are the integers 2^a * 3^b * p1 * p2 with a >= 2 (every size
// is divisible by 4), b >= 0 and p1 <= p2 from {1, 5, 7, 11}. For each
// ideal position log2(start) + i/divPerOct the nearest candidate in log
// distance is chosen; when two candidates are equidistant the smaller one
// wins. The result may contain duplicates where candidates are sparse.
//
// Generate returns nil if start < 1, end < start, divPerOct < 1, or no
// candidate falls inside the range.
func Generate(start, end, divPerOct int) []int {
	if start < 1 || end < start || divPerOct < 1 {
		return nil
	}

	candidates := enumerate(start, end)
	if len(candidates) == 0 {
		return nil
	}

	sort.Ints(candidates)

	logs := make([]float64, len(candidates))
	for i, c := range candidates {
		logs[i] = math.Log2(float64(c))
	}

	logStart := math.Log2(float64(start))
	logEnd := math.Log2(float64(end))
	count := int((logEnd-logStart)*float64(divPerOct)) + 1

	sizes := make([]int, count)
	for i := range sizes {
		ideal := logStart + float64(i)/float64(divPerOct)

		best := 0
		bestDist := math.Inf(1)

		for j, l := range logs {
			if d := math.Abs(l - ideal); d < bestDist {
				best, bestDist = j, d
			}
		}

		sizes[i] = candidates[best]
	}

	return sizes
}

// enumerate lists all candidate sizes in [start, end], unsorted.
func enumerate(start, end int) []int {
	var candidates []int

	for f2 := 4; f2 <= end; f2 *= 2 {
		for f3 := 1; f2*f3 <= end; f3 *= 3 {
			base := f2 * f3
			for i, p1 := range smallPrimes {
				for _, p2 := range smallPrimes[i:] {
					x := base * p1 * p2
					if x >= start && x <= end {
						candidates = append(candidates, x)
					}
				}
			}
		}
	}

	return candidates
}

// Factorizable reports whether n is a valid ladder size: divisible by 4
// and of the form 2^a * 3^b * p1 * p2 with p1 <= p2 from {1, 5, 7, 11}.
func Factorizable(n int) bool {
	if n <= 0 || n%4 != 0 {
		return false
	}

	for n%2 == 0 {
		n /= 2
	}
	for n%3 == 0 {
		n /= 3
	}

	for i, p1 := range smallPrimes {
		for _, p2 := range smallPrimes[i:] {
			if n == p1*p2 {
				return true
			}
		}
	}

	return false
}
