package ports

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTail_KeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", 10) // 20 bytes
	for n := 1; n < len(s); n++ {
		got := tail(s, n)
		if !utf8.ValidString(got) {
			t.Fatalf("tail(%d) split a rune: %q", n, got)
		}
		if !strings.HasPrefix(got, "...") || len(got)-3 > n {
			t.Fatalf("tail(%d) = %q", n, got)
		}
	}
	if got := tail("short", 10); got != "short" {
		t.Fatalf("short input must be kept, got %q", got)
	}
}

func TestToolError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ToolError{
		Tool:   "ffmpeg",
		Args:   []string{"-i", "in.mp4"},
		Output: strings.Repeat("x", 3000) + "Кодек не найден\n",
		Err:    cause,
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "ffmpeg -i in.mp4: exit status 1\n...") {
		t.Fatalf("unexpected message head: %.60q", msg)
	}
	if !strings.HasSuffix(msg, "Кодек не найден") || !utf8.ValidString(msg) {
		t.Fatalf("expected the end of the tool output, got tail %q", msg[len(msg)-40:])
	}
	if !errors.Is(err, cause) {
		t.Fatalf("ToolError must unwrap to its cause")
	}
}
