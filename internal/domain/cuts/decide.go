// Package cuts turns speech segments and silence onsets into the ordered list
// of source ranges to keep.
package cuts

import (
	"github.com/forPelevin/roughcut/internal/domain/silence"
	"github.com/forPelevin/roughcut/internal/domain/transcript"
	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/types"
)

// Decide keeps, in segment order, every segment whose [start, end] contains at
// least one silence onset. Segments without an onset are left out.
//
// NOTE: this keeps the segments that contain a pause rather than removing the
// pauses. Product intent is still open, so the rule is kept as-is.
func Decide(segs transcript.Segments, idx silence.Index, log *logx.Logger) []types.TimeSpan {
	var out []types.TimeSpan
	for seg := range segs.All() {
		span := seg.Span()
		if idx.ContainsWithin(span) {
			out = append(out, span)
		}
	}
	log.Infof("cuts generated: %s", formatSpans(out))
	return out
}
