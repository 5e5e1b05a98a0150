// Package procexec runs external tools as child processes.
package procexec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/forPelevin/roughcut/internal/ports"
)

type Runner struct{}

func New() *Runner { return &Runner{} }

// Run executes name with args. On failure the returned error is a
// *ports.ToolError carrying the captured stderr (or stdout when stderr is empty).
func (Runner) Run(ctx context.Context, name string, args ...string) (ports.Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := ports.Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		captured := stderr.String()
		if captured == "" {
			captured = stdout.String()
		}
		return out, &ports.ToolError{Tool: name, Args: args, Output: captured, Err: err}
	}
	return out, nil
}
