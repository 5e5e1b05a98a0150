package cuts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/types"
)

type NormalizeOptions struct {
	// MergeOverlaps joins overlapping or touching spans after sorting.
	// Off by default: duplicates and overlaps each produce their own segment.
	MergeOverlaps bool
}

// Normalize returns the valid candidates sorted by start. Invalid spans are
// dropped with a warning. The result is safe to feed back into Normalize.
func Normalize(cands []types.TimeSpan, opts NormalizeOptions, log *logx.Logger) []types.TimeSpan {
	if len(cands) == 0 {
		return nil
	}

	out := make([]types.TimeSpan, 0, len(cands))
	for _, c := range cands {
		if err := c.Valid(); err != nil {
			log.Warnf("dropping cut %v: %v", c, err)
			continue
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b types.TimeSpan) int {
		return cmp.Compare(a.Start, b.Start)
	})

	if opts.MergeOverlaps {
		out = merge(out)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// merge expects spans sorted by start.
func merge(spans []types.TimeSpan) []types.TimeSpan {
	if len(spans) < 2 {
		return spans
	}
	out := []types.TimeSpan{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}

func formatSpans(spans []types.TimeSpan) string {
	if len(spans) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, s.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
