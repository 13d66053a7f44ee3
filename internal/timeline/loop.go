package timeline

import (
	"errors"
	"fmt"
	"math"
)

// epsilon absorbs float residue when comparing accumulated seconds.
const epsilon = 1e-9

// Piece is a contiguous span of one source file.
type Piece struct {
	Source   string
	Start    float64
	Duration float64
}

// End returns the source offset where the piece stops.
func (p Piece) End() float64 { return p.Start + p.Duration }

// Total sums the durations of pieces.
func Total(pieces []Piece) float64 {
	var sum float64
	for _, p := range pieces {
		sum += p.Duration
	}
	return sum
}

// LoopAndTrim fits an ordered sequence to exactly target seconds. A sequence
// shorter than target is repeated whole ceil(target/L) times; the result is
// then cut at target, shortening the final piece when needed.
func LoopAndTrim(pieces []Piece, target float64) ([]Piece, error) {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, fmt.Errorf("loop and trim: invalid target %v", target)
	}
	length := Total(pieces)
	if len(pieces) == 0 || length <= 0 {
		return nil, errors.New("loop and trim: sequence has no duration")
	}

	repeats := 1
	if length < target {
		repeats = int(math.Ceil(target / length))
	}

	out := make([]Piece, 0, len(pieces)*repeats)
	remaining := target
	for r := 0; r < repeats && remaining > epsilon; r++ {
		for _, p := range pieces {
			if remaining <= epsilon {
				break
			}
			if p.Duration <= 0 {
				continue
			}
			if p.Duration > remaining {
				p.Duration = remaining
			}
			out = append(out, p)
			remaining -= p.Duration
		}
	}
	return out, nil
}

// Repeats reports how many whole passes LoopAndTrim makes over a sequence of
// the given length to cover target.
func Repeats(length, target float64) int {
	if length <= 0 || target <= 0 {
		return 0
	}
	if length >= target {
		return 1
	}
	return int(math.Ceil(target / length))
}

// Locate finds the piece playing at timeline position t and the matching
// offset into its source. Positions past the end report false.
func Locate(pieces []Piece, t float64) (Piece, float64, bool) {
	if t < 0 {
		return Piece{}, 0, false
	}
	var elapsed float64
	for _, p := range pieces {
		if t < elapsed+p.Duration {
			return p, p.Start + (t - elapsed), true
		}
		elapsed += p.Duration
	}
	return Piece{}, 0, false
}
