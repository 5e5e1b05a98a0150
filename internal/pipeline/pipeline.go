package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/forPelevin/roughcut/internal/domain/cuts"
	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/ports"
	"github.com/forPelevin/roughcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/roughcut/internal/ports/adapters/openaiasr"
	"github.com/forPelevin/roughcut/internal/ports/adapters/procexec"
	"github.com/forPelevin/roughcut/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/roughcut/internal/types"
	"github.com/forPelevin/roughcut/internal/usecase"
)

const (
	ASRWhisperCpp = "whispercpp"
	ASROpenAI     = "openai"
)

type Config struct {
	InputVideo string
	// OutputVideo defaults to output<ext> inside the run directory.
	OutputVideo string
	OutDir      string
	Log         *logx.Logger

	// CacheDir is the base directory for local artifacts (audio, transcripts, etc.).
	// If empty, defaults to ".cache".
	CacheDir string

	SilenceThresholdDB float64
	MinSilence         float64
	MergeOverlaps      bool
	CopyOriginal       bool
	DryRun             bool

	FFmpegPath  string
	FFprobePath string

	ASR          string
	WhisperBin   string
	WhisperModel string

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIAllowedHosts openaiasr.AllowedHosts
}

func (c Config) Validate() error {
	if c.InputVideo == "" {
		return errors.New("input is empty")
	}
	absIn, err := filepath.Abs(c.InputVideo)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	fi, err := os.Stat(absIn)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("input %s is a directory", c.InputVideo)
	}
	if c.SilenceThresholdDB < -120 || c.SilenceThresholdDB > 0 {
		return fmt.Errorf("silence threshold must be between -120 and 0 dB")
	}
	if c.MinSilence <= 0 {
		return fmt.Errorf("min silence must be > 0")
	}
	if c.OutputVideo != "" {
		absOut, err := filepath.Abs(c.OutputVideo)
		if err != nil {
			return fmt.Errorf("resolve output: %w", err)
		}
		if absOut == absIn {
			return fmt.Errorf("output must differ from input")
		}
		// Links and case-folding filesystems resolve to the same file.
		if out, err := os.Stat(absOut); err == nil && os.SameFile(fi, out) {
			return fmt.Errorf("output must differ from input: %s is the same file as %s", c.OutputVideo, c.InputVideo)
		}
	}
	switch c.ASR {
	case ASRWhisperCpp, "":
		if c.WhisperModel == "" {
			return fmt.Errorf("whisper model path is required")
		}
		return nil
	case ASROpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
		return openaiasr.ValidateBaseURL(c.OpenAIBaseURL, c.OpenAIAllowedHosts)
	default:
		return fmt.Errorf("unknown asr backend %q (want %s|%s)", c.ASR, ASRWhisperCpp, ASROpenAI)
	}
}

func Run(ctx context.Context, cfg Config) (types.Report, error) {
	log := cfg.Log

	// adapters
	runner := procexec.New()
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, runner)
	var asr ports.ASR
	switch cfg.ASR {
	case ASROpenAI:
		asr = openaiasr.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		asr = whispercpp.New(cfg.WhisperBin, cfg.WhisperModel, runner)
	}

	uc := usecase.New(usecase.Deps{
		Media:   media,
		Silence: media,
		ASR:     asr,
		Log:     log,
	})

	jobID := hash(cfg.InputVideo)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	log.Infof("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.Report{}, err
	}
	log.Debugf("cache: %s", cacheDir)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	now := time.Now().UTC()
	runOutDir := buildRunOutDir(outDir, cfg.InputVideo, now)
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return types.Report{}, err
	}
	log.Infof("output run dir: %s", runOutDir)

	outVideo := cfg.OutputVideo
	if outVideo == "" {
		outVideo = filepath.Join(runOutDir, "output"+outputExt(cfg.InputVideo))
	} else if err := os.MkdirAll(filepath.Dir(outVideo), 0o755); err != nil {
		return types.Report{}, err
	}

	res, err := uc.Run(ctx, usecase.Input{
		InputVideo:  cfg.InputVideo,
		OutputVideo: outVideo,
		CacheDir:    cacheDir,
		Silence: ports.SilenceOptions{
			ThresholdDB: cfg.SilenceThresholdDB,
			MinDuration: cfg.MinSilence,
		},
		Normalize:    cuts.NormalizeOptions{MergeOverlaps: cfg.MergeOverlaps},
		DryRun:       cfg.DryRun,
		CopyOriginal: cfg.CopyOriginal,
	})
	if err != nil {
		return types.Report{}, err
	}

	rep := types.Report{
		RunID:        uuid.NewString(),
		Input:        cfg.InputVideo,
		Output:       res.Output,
		Passthrough:  res.Plan.Passthrough,
		DryRun:       cfg.DryRun,
		Segments:     res.Segments,
		Onsets:       res.Onsets,
		Cuts:         res.Cuts,
		SourceSec:    res.SourceSec,
		KeptSec:      res.Plan.KeptDuration(),
		FilterGraph:  ffmpeg.FilterComplex(res.Plan),
		CreatedAtUTC: now.Format(time.RFC3339),
	}
	if rep.Passthrough {
		rep.KeptSec = rep.SourceSec
	}
	if rep.Cuts == nil {
		rep.Cuts = []types.TimeSpan{}
	}

	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return types.Report{}, fmt.Errorf("marshal report: %w", err)
	}
	reportPath := filepath.Join(runOutDir, "report.json")
	if err := os.WriteFile(reportPath, b, 0o644); err != nil {
		return types.Report{}, err
	}
	log.Okf("report written (%d cuts): %s", len(rep.Cuts), reportPath)
	return rep, nil
}

func outputExt(input string) string {
	if ext := strings.ToLower(filepath.Ext(input)); ext != "" {
		return ext
	}
	return ".mp4"
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.SilenceDetector = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.ASR = (*openaiasr.Adapter)(nil)
var _ ports.Runner = (*procexec.Runner)(nil)
