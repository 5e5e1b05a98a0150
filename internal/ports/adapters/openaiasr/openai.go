package openaiasr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/forPelevin/roughcut/internal/types"
)

const (
	defaultModel   = "whisper-1"
	requestTimeout = 30 * time.Minute
)

// Adapter transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint, asking for segment level timestamps.
type Adapter struct {
	model  string
	client openai.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(normalizeBaseURL(baseURL)+"/"),
		option.WithMaxRetries(0),
	)
	return &Adapter{model: model, client: client}
}

type verboseTranscription struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (a *Adapter) Transcribe(ctx context.Context, audio, _ string) (types.Transcript, error) {
	f, err := os.Open(audio)
	if err != nil {
		return types.Transcript{}, err
	}
	defer f.Close()

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.Audio.Transcriptions.New(reqCtx, openai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  openai.AudioModel(a.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	})
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return types.Transcript{}, fmt.Errorf("openai transcription timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return types.Transcript{}, fmt.Errorf("openai transcription: %w", err)
	}
	return parseVerbose([]byte(resp.RawJSON()))
}

func parseVerbose(b []byte) (types.Transcript, error) {
	var v verboseTranscription
	if err := json.Unmarshal(b, &v); err != nil {
		return types.Transcript{}, fmt.Errorf("decode verbose transcription: %w", err)
	}
	tr := types.Transcript{Segments: make([]types.Segment, 0, len(v.Segments))}
	for _, s := range v.Segments {
		tr.Segments = append(tr.Segments, types.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return tr, nil
}
