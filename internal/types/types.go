package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpan is returned by TimeSpan.Valid for spans that cannot be cut.
var ErrInvalidSpan = errors.New("invalid time span")

// TimeSpan is a range of the source timeline in seconds. A valid span has
// 0 <= Start < End with both bounds finite.
type TimeSpan struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s TimeSpan) Valid() error {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsInf(s.Start, 0) || math.IsInf(s.End, 0) {
		return fmt.Errorf("%w: non-finite bounds [%v, %v]", ErrInvalidSpan, s.Start, s.End)
	}
	if s.Start < 0 {
		return fmt.Errorf("%w: negative start %v", ErrInvalidSpan, s.Start)
	}
	if s.Start >= s.End {
		return fmt.Errorf("%w: start %v >= end %v", ErrInvalidSpan, s.Start, s.End)
	}
	return nil
}

func (s TimeSpan) Duration() float64 { return s.End - s.Start }

func (s TimeSpan) String() string {
	return fmt.Sprintf("[%.3f-%.3f]", s.Start, s.End)
}

type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (s Segment) Span() TimeSpan { return TimeSpan{Start: s.Start, End: s.End} }

type Report struct {
	RunID        string     `json:"run_id"`
	Input        string     `json:"input"`
	Output       string     `json:"output"`
	Passthrough  bool       `json:"passthrough"`
	DryRun       bool       `json:"dry_run,omitempty"`
	Segments     int        `json:"segments"`
	Onsets       int        `json:"silence_onsets"`
	Cuts         []TimeSpan `json:"cuts"`
	SourceSec    float64    `json:"source_sec,omitempty"`
	KeptSec      float64    `json:"kept_sec"`
	FilterGraph  string     `json:"filter_graph,omitempty"`
	CreatedAtUTC string     `json:"created_at_utc"`
}
