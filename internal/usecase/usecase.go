package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/roughcut/internal/domain/cuts"
	"github.com/forPelevin/roughcut/internal/domain/reassembly"
	"github.com/forPelevin/roughcut/internal/domain/silence"
	"github.com/forPelevin/roughcut/internal/domain/transcript"
	"github.com/forPelevin/roughcut/internal/logx"
	"github.com/forPelevin/roughcut/internal/ports"
	"github.com/forPelevin/roughcut/internal/types"
)

// ErrReassemblyFailed is the only collaborator failure that ends a run.
var ErrReassemblyFailed = errors.New("reassembly failed")

type Deps struct {
	Media   ports.MediaTool
	Silence ports.SilenceDetector
	ASR     ports.ASR
	Log     *logx.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	InputVideo  string
	OutputVideo string
	CacheDir    string

	Silence   ports.SilenceOptions
	Normalize cuts.NormalizeOptions

	// DryRun stops after planning; nothing is written to OutputVideo.
	DryRun bool
	// CopyOriginal copies the source to OutputVideo when there is nothing to cut.
	CopyOriginal bool
}

type Result struct {
	Plan      reassembly.Plan
	Cuts      []types.TimeSpan
	Segments  int
	Onsets    int
	SourceSec float64
	// Output is the file holding the result: OutputVideo after a reassembly
	// or a copy, InputVideo when the source was left untouched, empty on a dry run.
	Output string
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	wav := filepath.Join(in.CacheDir, "audio.wav")
	// The cache dir is reused across runs of the same input; a failed
	// extraction must not leave a previous run's audio behind.
	if err := os.Remove(wav); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf("remove stale audio: %w", err)
	}
	log.Infof("extracting audio: %s", wav)
	if err := u.d.Media.ExtractAudio(ctx, in.InputVideo, wav); err != nil {
		log.Errorf("audio extraction failed, continuing: %v", err)
	} else {
		log.Okf("audio extracted: %s", wav)
	}

	var (
		tr     types.Transcript
		onsets []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := u.d.ASR.Transcribe(gctx, wav, in.CacheDir)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Errorf("transcription failed, treating as empty: %v", err)
			return nil
		}
		tr = res
		log.Okf("transcription done: %d segments", len(res.Segments))
		return nil
	})
	g.Go(func() error {
		res, err := u.d.Silence.DetectSilences(gctx, wav, in.Silence)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			log.Errorf("silence detection failed, treating as none: %v", err)
			return nil
		}
		onsets = res
		log.Okf("silence detection done: %d onsets", len(res))
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	segs := transcript.Build(tr.Segments, log)
	idx := silence.Parse(onsets, log)
	norm := cuts.Normalize(cuts.Decide(segs, idx, log), in.Normalize, log)
	plan := reassembly.NewPlan(norm)

	res := Result{
		Plan:     plan,
		Cuts:     norm,
		Segments: segs.Len(),
		Onsets:   idx.Len(),
	}
	if sec, err := u.d.Media.ProbeDuration(ctx, in.InputVideo); err != nil {
		log.Warnf("probe source duration: %v", err)
	} else {
		res.SourceSec = sec
	}

	switch {
	case plan.Passthrough:
		log.Warnf("no cuts detected; the original video is kept")
		res.Output = in.InputVideo
		if in.CopyOriginal && !in.DryRun {
			if err := copyFile(in.InputVideo, in.OutputVideo); err != nil {
				return Result{}, fmt.Errorf("copy original: %w", err)
			}
			res.Output = in.OutputVideo
		}
		return res, nil
	case in.DryRun:
		log.Infof("dry run: %d cuts planned, skipping reassembly", plan.Len())
		return res, nil
	}

	log.Infof("reassembling %d cuts into %s", plan.Len(), in.OutputVideo)
	if err := u.d.Media.Reassemble(ctx, in.InputVideo, plan, in.OutputVideo); err != nil {
		if rmErr := os.Remove(in.OutputVideo); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warnf("remove partial output: %v", rmErr)
		}
		log.Errorf("reassembly failed: %v", err)
		return Result{}, fmt.Errorf("%w: %w", ErrReassemblyFailed, err)
	}
	log.Okf("video edited: %s", in.OutputVideo)
	res.Output = in.OutputVideo
	return res, nil
}

var errSameFile = errors.New("output is the input file")

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return errSameFile
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
