package transcript

import (
	"iter"
	"strings"

	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/types"
)

// Segments is the validated, input-ordered speech segment list.
type Segments struct {
	segs []types.Segment
}

// Build keeps segments whose span is valid and drops the rest with a warning.
// Order is preserved exactly as received.
func Build(raw []types.Segment, log *logx.Logger) Segments {
	out := make([]types.Segment, 0, len(raw))
	for i, s := range raw {
		if err := s.Span().Valid(); err != nil {
			log.Warnf("dropping transcript segment #%d: %v", i, err)
			continue
		}
		s.Text = strings.TrimSpace(s.Text)
		out = append(out, s)
	}
	return Segments{segs: out}
}

// All yields segments in input order. It may be ranged over any number of times.
func (s Segments) All() iter.Seq[types.Segment] {
	return func(yield func(types.Segment) bool) {
		for _, seg := range s.segs {
			if !yield(seg) {
				return
			}
		}
	}
}

func (s Segments) Len() int { return len(s.segs) }
