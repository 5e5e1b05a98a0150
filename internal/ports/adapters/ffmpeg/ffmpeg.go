package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/forPelevin/roughcut/internal/domain/reassembly"
	"github.com/forPelevin/roughcut/internal/ports"
	"github.com/forPelevin/roughcut/internal/ports/adapters/procexec"
)

var errPassthrough = errors.New("passthrough plan has nothing to reassemble")

type Adapter struct {
	ffmpeg  string
	ffprobe string
	run     ports.Runner
}

func New(ffmpegPath, ffprobePath string, run ports.Runner) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if run == nil {
		run = procexec.New()
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, run: run}
}

// ExtractAudio writes a mono 16 kHz WAV, the input format whisper.cpp expects.
func (a *Adapter) ExtractAudio(ctx context.Context, inVideo, outAudio string) error {
	_, err := a.run.Run(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outAudio,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

// DetectSilences runs the silencedetect filter and returns the last field of
// every "silence_start" line ffmpeg prints to stderr.
func (a *Adapter) DetectSilences(ctx context.Context, audio string, opts ports.SilenceOptions) ([]string, error) {
	out, err := a.run.Run(ctx, a.ffmpeg,
		"-hide_banner",
		"-nostats",
		"-i", audio,
		"-af", silenceFilter(opts),
		"-f", "null",
		"-",
	)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg silencedetect: %w", err)
	}
	return parseSilenceStarts(string(out.Stderr)), nil
}

func silenceFilter(opts ports.SilenceOptions) string {
	return fmt.Sprintf("silencedetect=noise=%sdB:d=%s", fmtFloat(opts.ThresholdDB), fmtFloat(opts.MinDuration))
}

func parseSilenceStarts(stderr string) []string {
	var out []string
	for _, line := range strings.Split(stderr, "\n") {
		if !strings.Contains(line, "silence_start") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields[len(fields)-1])
	}
	return out
}

func (a *Adapter) Reassemble(ctx context.Context, inVideo string, plan reassembly.Plan, outVideo string) error {
	if plan.Passthrough || plan.Len() == 0 {
		return errPassthrough
	}
	args := []string{
		"-y",
		"-i", inVideo,
		"-filter_complex", FilterComplex(plan),
		"-map", "[outv]",
		"-map", "[outa]",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outVideo,
	}
	if _, err := a.run.Run(ctx, a.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg reassemble: %w", err)
	}
	return nil
}

// FilterComplex serializes a plan into ffmpeg's -filter_complex syntax. Each
// step becomes a trimmed video/audio pair [vI][aI]; the pairs are then
// concatenated in plan order into [outv][outa].
func FilterComplex(plan reassembly.Plan) string {
	if plan.Passthrough || plan.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range plan.Steps {
		start, end := fmtFloat(s.Source.Start), fmtFloat(s.Source.End)
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];", start, end, s.Index)
		fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];", start, end, s.Index)
	}
	for _, i := range plan.Order {
		fmt.Fprintf(&b, "[v%d][a%d]", plan.Steps[i].Index, plan.Steps[i].Index)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[outv][outa]", len(plan.Order))
	return b.String()
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (float64, error) {
	out, err := a.run.Run(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	s := strings.TrimSpace(string(out.Stdout))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// fmtFloat prints the shortest exact decimal, so seconds reach ffmpeg unrounded.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
