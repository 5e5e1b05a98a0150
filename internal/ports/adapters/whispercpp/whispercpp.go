package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/roughcut/internal/ports"
	"github.com/forPelevin/roughcut/internal/ports/adapters/procexec"
	"github.com/forPelevin/roughcut/internal/types"
)

type Adapter struct {
	bin   string
	model string
	run   ports.Runner
}

func New(binPath, modelPath string, run ports.Runner) *Adapter {
	if run == nil {
		run = procexec.New()
	}
	return &Adapter{bin: binPath, model: modelPath, run: run}
}

// whisper.cpp -oj output; offsets are milliseconds.
type output struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	if _, err := a.run.Run(ctx, a.bin, args...); err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w", err)
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}
	return parseOutput(jb)
}

func parseOutput(b []byte) (types.Transcript, error) {
	var out output
	if err := json.Unmarshal(b, &out); err != nil {
		return types.Transcript{}, fmt.Errorf("decode whisper.cpp json: %w", err)
	}
	tr := types.Transcript{Segments: make([]types.Segment, 0, len(out.Transcription))}
	for _, s := range out.Transcription {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return tr, nil
}
