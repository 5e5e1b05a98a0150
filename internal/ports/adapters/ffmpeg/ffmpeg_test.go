package ffmpeg

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/forPelevin/roughcut/internal/domain/reassembly"
	"github.com/forPelevin/roughcut/internal/ports"
	"github.com/forPelevin/roughcut/internal/types"
)

type fakeRunner struct {
	out   ports.Output
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (ports.Output, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestFilterComplex(t *testing.T) {
	plan := reassembly.NewPlan([]types.TimeSpan{{Start: 0, End: 5}, {Start: 7.125, End: 9.3333}})
	got := FilterComplex(plan)
	want := "[0:v]trim=start=0:end=5,setpts=PTS-STARTPTS[v0];" +
		"[0:a]atrim=start=0:end=5,asetpts=PTS-STARTPTS[a0];" +
		"[0:v]trim=start=7.125:end=9.3333,setpts=PTS-STARTPTS[v1];" +
		"[0:a]atrim=start=7.125:end=9.3333,asetpts=PTS-STARTPTS[a1];" +
		"[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]"
	if got != want {
		t.Fatalf("FilterComplex mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestFilterComplex_PassthroughIsEmpty(t *testing.T) {
	if got := FilterComplex(reassembly.NewPlan(nil)); got != "" {
		t.Fatalf("expected empty filter graph, got %q", got)
	}
}

func TestParseSilenceStarts(t *testing.T) {
	stderr := strings.Join([]string{
		"Input #0, wav, from 'in.wav':",
		"[silencedetect @ 0x55d] silence_start: 1.50812",
		"[silencedetect @ 0x55d] silence_end: 2.6 | silence_duration: 1.09188",
		"[silencedetect @ 0x55d] silence_start: 12",
		"[silencedetect @ 0x55d] silence_start: garbage",
		"",
	}, "\n")
	got := parseSilenceStarts(stderr)
	want := []string{"1.50812", "12", "garbage"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDetectSilences_Args(t *testing.T) {
	r := &fakeRunner{out: ports.Output{Stderr: []byte("[silencedetect @ 0x1] silence_start: 3\n")}}
	a := New("ff", "fp", r)

	got, err := a.DetectSilences(context.Background(), "in.wav", ports.DefaultSilenceOptions())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !slices.Equal(got, []string{"3"}) {
		t.Fatalf("unexpected onsets: %q", got)
	}
	call := strings.Join(r.calls[0], " ")
	if !strings.HasPrefix(call, "ff ") || !strings.Contains(call, "-af silencedetect=noise=-40dB:d=0.5 -f null -") {
		t.Fatalf("unexpected ffmpeg call: %s", call)
	}
}

func TestReassemble(t *testing.T) {
	r := &fakeRunner{}
	a := New("ff", "fp", r)
	plan := reassembly.NewPlan([]types.TimeSpan{{Start: 1, End: 2}})

	if err := a.Reassemble(context.Background(), "in.mp4", plan, "out.mp4"); err != nil {
		t.Fatalf("reassemble: %v", err)
	}
	call := r.calls[0]
	if call[len(call)-1] != "out.mp4" {
		t.Fatalf("output path must be last arg: %q", call)
	}
	i := slices.Index(call, "-filter_complex")
	if i < 0 || call[i+1] != FilterComplex(plan) {
		t.Fatalf("missing filter graph: %q", call)
	}
	if !slices.Contains(call, "[outv]") || !slices.Contains(call, "[outa]") {
		t.Fatalf("missing output maps: %q", call)
	}
}

func TestReassemble_Errors(t *testing.T) {
	a := New("ff", "fp", &fakeRunner{})
	if err := a.Reassemble(context.Background(), "in.mp4", reassembly.NewPlan(nil), "out.mp4"); !errors.Is(err, errPassthrough) {
		t.Fatalf("expected passthrough error, got %v", err)
	}

	boom := errors.New("exit status 1")
	a = New("ff", "fp", &fakeRunner{err: boom})
	err := a.Reassemble(context.Background(), "in.mp4", reassembly.NewPlan([]types.TimeSpan{{Start: 0, End: 1}}), "out.mp4")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "ffmpeg reassemble") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProbeDuration(t *testing.T) {
	a := New("ff", "fp", &fakeRunner{out: ports.Output{Stdout: []byte("12.480000\n")}})
	got, err := a.ProbeDuration(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got != 12.48 {
		t.Fatalf("got %v, want 12.48", got)
	}

	a = New("ff", "fp", &fakeRunner{out: ports.Output{Stdout: []byte("N/A")}})
	if _, err := a.ProbeDuration(context.Background(), "in.mp4"); err == nil {
		t.Fatalf("expected parse error")
	}
}
