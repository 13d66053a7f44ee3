package captions

import (
	"fmt"
	"math"
	"strings"

	"reelsmith/internal/services"
)

// Mode selects how the script is partitioned into captions.
type Mode string

const (
	ModeWord     Mode = "word"
	ModeSentence Mode = "sentence"
)

// DefaultWindow is the number of words per caption when a script has no
// sentence punctuation.
const DefaultWindow = 6

// Unit is one caption shown over [Start, End).
type Unit struct {
	Index int
	Text  string
	Start float64
	End   float64
	// Style overrides the renderer defaults for this unit; zero fields inherit.
	Style Style
}

// Duration returns End - Start.
func (u Unit) Duration() float64 { return u.End - u.Start }

// ParseMode maps a request caption style to a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeWord:
		return ModeWord, nil
	case ModeSentence, "":
		return ModeSentence, nil
	default:
		return "", services.Wrap(services.ErrInput, "captions", "mode", fmt.Sprintf("unknown caption style %q", value), nil)
	}
}

// Segment partitions text into units that tile [0, duration) with equal
// shares. In word mode every whitespace-separated token is a unit. In
// sentence mode the text is split after tokens ending in '.', '?' or '!'
// when any such mark appears, otherwise into windows of window tokens.
func Segment(text string, duration float64, mode Mode, window int) ([]Unit, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrEmptyScript, "captions", "segment", "script has no words", nil)
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, services.Wrap(services.ErrInput, "captions", "segment", fmt.Sprintf("invalid duration %v", duration), nil)
	}
	if window <= 0 {
		window = DefaultWindow
	}

	tokens := strings.Fields(text)
	var parts []string
	switch mode {
	case ModeWord:
		parts = tokens
	case ModeSentence:
		if strings.ContainsAny(text, ".?!") {
			parts = splitSentences(tokens)
		} else {
			parts = windows(tokens, window)
		}
	default:
		return nil, services.Wrap(services.ErrInput, "captions", "segment", fmt.Sprintf("unknown mode %q", mode), nil)
	}

	n := len(parts)
	units := make([]Unit, n)
	for i, part := range parts {
		units[i] = Unit{
			Index: i,
			Text:  part,
			Start: float64(i) * duration / float64(n),
			End:   float64(i+1) * duration / float64(n),
		}
	}
	units[n-1].End = duration
	return units, nil
}

func splitSentences(tokens []string) []string {
	var parts []string
	var current []string
	for _, tok := range tokens {
		current = append(current, tok)
		if strings.ContainsAny(tok[len(tok)-1:], ".?!") {
			parts = append(parts, strings.Join(current, " "))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, " "))
	}
	return parts
}

func windows(tokens []string, size int) []string {
	parts := make([]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		parts = append(parts, strings.Join(tokens[start:end], " "))
	}
	return parts
}

// ApplyStyle stamps style on every unit.
func ApplyStyle(units []Unit, style Style) []Unit {
	out := make([]Unit, len(units))
	for i, u := range units {
		u.Style = style
		out[i] = u
	}
	return out
}
