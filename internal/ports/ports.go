package ports

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/roughcut/internal/domain/reassembly"
	"github.com/forPelevin/roughcut/internal/types"
)

// Output is what an external tool printed.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner spawns an external media tool once and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

type MediaTool interface {
	ExtractAudio(ctx context.Context, inVideo, outAudio string) error
	Reassemble(ctx context.Context, inVideo string, plan reassembly.Plan, outVideo string) error
	ProbeDuration(ctx context.Context, inVideo string) (float64, error)
}

type SilenceOptions struct {
	ThresholdDB float64
	MinDuration float64 // seconds
}

func DefaultSilenceOptions() SilenceOptions {
	return SilenceOptions{ThresholdDB: -40, MinDuration: 0.5}
}

// SilenceDetector returns raw onset tokens exactly as the detector printed
// them. Parsing and validation happen in the silence index.
type SilenceDetector interface {
	DetectSilences(ctx context.Context, audio string, opts SilenceOptions) ([]string, error)
}

type ASR interface {
	Transcribe(ctx context.Context, audio, cacheDir string) (types.Transcript, error)
}

// ToolError is a failed external tool invocation.
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + tail(out, 2000)
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// tail keeps roughly the last n bytes of s without splitting a UTF-8 rune.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return "..." + s[i:]
}
