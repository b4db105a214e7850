// Package rank maps a job's relevance score onto display bands.
package rank

import (
	"fmt"
	"math"
	"strings"
)

// Band is an ordered match class; a higher value is a better match.
type Band int

const (
	Poor Band = iota
	Weak
	Fair
	Good
	Excellent
)

// Lower bounds, inclusive, in descending order.
var bounds = []struct {
	min  float64
	band Band
}{
	{0.8, Excellent},
	{0.65, Good},
	{0.5, Fair},
	{0.3, Weak},
}

type style struct {
	label string
	color string
}

var styles = map[Band]style{
	Excellent: {"Excellent", "#16a34a"},
	Good:      {"Good", "#4ade80"},
	Fair:      {"Fair", "#f59e0b"},
	Weak:      {"Weak", "#f97316"},
	Poor:      {"Poor", "#ef4444"},
}

// Classify is total: scores above 1 land in Excellent, below 0 and NaN in Poor.
func Classify(score float64) Band {
	if math.IsNaN(score) {
		return Poor
	}
	for _, b := range bounds {
		if score >= b.min {
			return b.band
		}
	}
	return Poor
}

func (b Band) String() string { return b.Label() }

func (b Band) Label() string {
	if s, ok := styles[b]; ok {
		return s.label
	}
	return styles[Poor].label
}

// Color is the hex colour the band renders with.
func (b Band) Color() string {
	if s, ok := styles[b]; ok {
		return s.color
	}
	return styles[Poor].color
}

func (b Band) MarshalText() ([]byte, error) { return []byte(b.Label()), nil }

func (b *Band) UnmarshalText(text []byte) error {
	for _, c := range AllBands() {
		if strings.EqualFold(c.Label(), string(text)) {
			*b = c
			return nil
		}
	}
	return fmt.Errorf("unknown band %q", text)
}

// AllBands returns the bands best first.
func AllBands() []Band {
	return []Band{Excellent, Good, Fair, Weak, Poor}
}
