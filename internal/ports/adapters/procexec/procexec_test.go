package procexec

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/forPelevin/roughcut/internal/ports"
)

func TestRun_CapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := New().Run(context.Background(), "sh", "-c", "echo hello; echo warn 1>&2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(string(out.Stdout)) != "hello" {
		t.Fatalf("unexpected stdout: %q", out.Stdout)
	}
	if strings.TrimSpace(string(out.Stderr)) != "warn" {
		t.Fatalf("unexpected stderr: %q", out.Stderr)
	}
}

func TestRun_FailureIsToolError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := New().Run(context.Background(), "sh", "-c", "echo broken pipe 1>&2; exit 3")
	var te *ports.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected *ports.ToolError, got %T (%v)", err, err)
	}
	if te.Tool != "sh" || !strings.Contains(te.Output, "broken pipe") {
		t.Fatalf("unexpected tool error: %+v", te)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected wrapped exit code 3, got %v", err)
	}
}
