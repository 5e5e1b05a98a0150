// Package reassembly plans how a validated cut list is stitched back into one
// continuous audio/video stream. Plans are plain data; turning them into tool
// arguments is the media adapter's job.
package reassembly

import "github.com/forPelevin/roughcut/internal/types"

// Step trims both the video and the audio track of the source to Source,
// resets their timestamps to zero and tags the result as pair Index.
type Step struct {
	Source types.TimeSpan
	Index  int
}

type Plan struct {
	// Passthrough means there is nothing to cut and the source must be left
	// untouched.
	Passthrough bool
	Steps       []Step
	// Order lists step indices in the order their pairs are concatenated.
	Order []int
}

// NewPlan expects cuts already normalized. Timestamps are carried verbatim.
func NewPlan(cuts []types.TimeSpan) Plan {
	if len(cuts) == 0 {
		return Plan{Passthrough: true}
	}
	p := Plan{
		Steps: make([]Step, 0, len(cuts)),
		Order: make([]int, 0, len(cuts)),
	}
	for i, c := range cuts {
		p.Steps = append(p.Steps, Step{Source: c, Index: i})
		p.Order = append(p.Order, i)
	}
	return p
}

func (p Plan) Len() int { return len(p.Steps) }

// KeptDuration is the output length in seconds, overlaps counted twice.
func (p Plan) KeptDuration() float64 {
	var sum float64
	for _, s := range p.Steps {
		sum += s.Source.Duration()
	}
	return sum
}

// Spans returns the source span of every step in concat order.
func (p Plan) Spans() []types.TimeSpan {
	out := make([]types.TimeSpan, 0, len(p.Order))
	for _, i := range p.Order {
		out = append(out, p.Steps[i].Source)
	}
	return out
}
