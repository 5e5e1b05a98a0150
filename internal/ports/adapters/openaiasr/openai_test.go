package openaiasr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranscribe_VerboseSegments(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "a b",
			"language": "english",
			"duration": 10,
			"segments": [
				{"id": 0, "start": 0.0, "end": 5.0, "text": " a "},
				{"id": 1, "start": 5.0, "end": 10.0, "text": " b"}
			]
		}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	a := New("sk-test", "", srv.URL+"/v1")
	tr, err := a.Transcribe(context.Background(), audio, "")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(tr.Segments) != 2 || tr.Segments[0].Text != "a" || tr.Segments[1].End != 10 {
		t.Fatalf("unexpected transcript: %+v", tr)
	}
	if gotPath != "/v1/audio/transcriptions" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
}

func TestTranscribe_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	a := New("bad", "whisper-1", srv.URL)
	if _, err := a.Transcribe(context.Background(), audio, ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTranscribe_MissingAudio(t *testing.T) {
	a := New("k", "", "")
	if _, err := a.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), ""); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestParseVerbose_NoSegments(t *testing.T) {
	tr, err := parseVerbose([]byte(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tr.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(tr.Segments))
	}
}
