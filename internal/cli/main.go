package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "roughcut <input>",
		Short:        "Rough-cut a video around its transcript and detected silences",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().StringP("out", "o", "", "Output video path (default: <out-dir>/<run>/output<ext>)")
	root.Flags().String("out-dir", "out", "Directory for run outputs and reports")
	root.Flags().Float64("threshold", -40, "Silence threshold in dB")
	root.Flags().Float64("min-silence", 0.5, "Minimum silence duration in seconds")
	root.Flags().String("asr", "whispercpp", "Transcription backend: whispercpp|openai")
	root.Flags().Bool("merge-overlaps", false, "Merge overlapping or touching cuts before reassembly")
	root.Flags().Bool("copy-original", false, "Copy the source to the output path when nothing is cut")
	root.Flags().Bool("dry-run", false, "Plan the cuts and print the filter graph without rendering")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")

	// Hidden tuning flag (internal)
	root.Flags().Duration("timeout", 3*time.Hour, "Overall run timeout")
	_ = root.Flags().MarkHidden("timeout")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
