// Package silence holds the silence onsets reported by the detector and
// answers range queries against them.
package silence

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/types"
)

// Index is an immutable, sorted set of silence onset timestamps in seconds.
// The zero value is an empty index, meaning "no silence evidence".
type Index struct {
	onsets []float64
}

// New keeps every finite, non-negative onset and drops the rest with a warning.
func New(onsets []float64, log *logx.Logger) Index {
	kept := make([]float64, 0, len(onsets))
	for _, o := range onsets {
		if math.IsNaN(o) || math.IsInf(o, 0) || o < 0 {
			log.Warnf("dropping malformed silence onset %v", o)
			continue
		}
		kept = append(kept, o)
	}
	slices.Sort(kept)
	return Index{onsets: kept}
}

// Parse builds an Index from raw detector tokens. Tokens that are not numbers
// are dropped with a warning.
func Parse(raw []string, log *logx.Logger) Index {
	vals := make([]float64, 0, len(raw))
	for _, tok := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			log.Warnf("dropping unparsable silence onset %q", tok)
			continue
		}
		vals = append(vals, v)
	}
	return New(vals, log)
}

// ContainsWithin reports whether any onset lies in [span.Start, span.End].
func (x Index) ContainsWithin(span types.TimeSpan) bool {
	i, _ := slices.BinarySearch(x.onsets, span.Start)
	return i < len(x.onsets) && x.onsets[i] <= span.End
}

func (x Index) Len() int { return len(x.onsets) }

func (x Index) Onsets() []float64 { return slices.Clone(x.onsets) }
