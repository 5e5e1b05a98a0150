package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/pipeline"
	"github.com/forPelevin/roughcut/internal/ports/adapters/openaiasr"
	"github.com/forPelevin/roughcut/internal/types"
)

func run(cmd *cobra.Command, input string) error {
	outPath, _ := cmd.Flags().GetString("out")
	outDir, _ := cmd.Flags().GetString("out-dir")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	minSilence, _ := cmd.Flags().GetFloat64("min-silence")
	asr, _ := cmd.Flags().GetString("asr")
	mergeOverlaps, _ := cmd.Flags().GetBool("merge-overlaps")
	copyOriginal, _ := cmd.Flags().GetBool("copy-original")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	level := logx.LevelInfo
	if verbose {
		level = logx.LevelDebug
	}
	log := logx.New(cmd.ErrOrStderr(), level)

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if outPath != "" {
		if outPath, err = filepath.Abs(outPath); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := pipeline.Config{
		InputVideo:  absIn,
		OutputVideo: outPath,
		OutDir:      outDir,
		CacheDir:    os.Getenv("ROUGHCUT_CACHE_DIR"),
		Log:         log,

		SilenceThresholdDB: threshold,
		MinSilence:         minSilence,
		MergeOverlaps:      mergeOverlaps,
		CopyOriginal:       copyOriginal,
		DryRun:             dryRun,

		FFmpegPath:  getenvDefault("ROUGHCUT_FFMPEG", "ffmpeg"),
		FFprobePath: getenvDefault("ROUGHCUT_FFPROBE", "ffprobe"),

		ASR:          asr,
		WhisperBin:   getenvDefault("WHISPER_BIN", ".cache/bin/whisper.cpp"),
		WhisperModel: getenvDefault("WHISPER_MODEL", ".cache/models/ggml-small.bin"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getenvDefault("OPENAI_MODEL", "whisper-1"),
		OpenAIBaseURL:      getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAllowedHosts: openaiasr.ParseAllowedHosts(os.Getenv("OPENAI_ALLOWED_HOSTS")),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.Infof("starting rough cut of %s", absIn)
	rep, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), rep)
	return nil
}

func printStats(w io.Writer, rep types.Report) {
	key := color.New(color.FgYellow).SprintFunc()
	src := color.New(color.FgGreen).SprintFunc()
	res := color.New(color.FgMagenta).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", key("input:"), src(rep.Input))
	if rep.SourceSec > 0 {
		fmt.Fprintf(w, "%s %s\n", key("duration:"), src(secs(rep.SourceSec)))
	}
	fmt.Fprintf(w, "%s %s\n", key("cuts:"), res(len(rep.Cuts)))
	switch {
	case rep.DryRun && !rep.Passthrough:
		fmt.Fprintf(w, "%s %s\n", key("filter graph:"), res(rep.FilterGraph))
	case rep.Passthrough:
		fmt.Fprintf(w, "%s %s\n", key("output:"), res(rep.Output+" (unchanged)"))
	default:
		fmt.Fprintf(w, "%s %s\n", key("output:"), res(rep.Output))
	}
	if !rep.Passthrough {
		kept := secs(rep.KeptSec)
		if rep.SourceSec > 0 {
			kept = fmt.Sprintf("%s (%.1f%%)", kept, rep.KeptSec/rep.SourceSec*100)
		}
		fmt.Fprintf(w, "%s %s\n", key("kept duration:"), res(kept))
	}
}

func secs(s float64) string {
	return time.Duration(s * float64(time.Second)).Round(time.Millisecond).String()
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
