package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/catfishw/t2s/internal/api"
	"github.com/catfishw/t2s/internal/jobs"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// batchService simulates the backend for batch runs. The submitted text
// selects the job's fate: "fail please" ends failed, "boom" rejects the
// submission outright, anything else completes with an artifact.
type batchService struct {
	mu      sync.Mutex
	submits int
}

func (s *batchService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tts/custom-voice", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.submits++
		s.mu.Unlock()

		switch req.Text {
		case "boom":
			http.Error(w, "submission rejected", http.StatusInternalServerError)
		case "fail please":
			json.NewEncoder(w).Encode(map[string]string{"job_id": "job-fail"})
		default:
			json.NewEncoder(w).Encode(map[string]string{"job_id": "job-ok"})
		}
	})
	mux.HandleFunc("/jobs/job-ok/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Job{Status: api.StatusCompleted, AudioURL: "/files/out.wav"})
	})
	mux.HandleFunc("/jobs/job-fail/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Job{Status: api.StatusFailed, Error: "synthesis failed"})
	})
	mux.HandleFunc("/files/out.wav", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("wav bytes"))
	})
	return mux
}

func (s *batchService) submitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submits
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fastOptions() jobs.Options {
	return jobs.Options{Interval: time.Millisecond, Timeout: time.Second}
}

func speakBuilder(text string) api.Submission {
	return api.CustomVoice(text, "vivian", "", "")
}

func TestProcess_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	svc := &batchService{}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()
	c := api.NewClient(srv.URL, nil, testLogger())

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "a.txt", "first line\n")
	writeInput(t, inputDir, "b.txt", "fail please")
	writeInput(t, inputDir, "c.txt", "boom")
	writeInput(t, inputDir, "d.txt", "last one")

	var out bytes.Buffer
	p := New(c, testLogger(), &out, fastOptions())
	summary, err := p.Process(context.Background(), inputDir, outputDir, speakBuilder)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(summary.Results) != 4 {
		t.Fatalf("results = %d, want 4 (every file processed)", len(summary.Results))
	}

	wantStatuses := []string{"success", "failed", "error", "success"}
	for i, want := range wantStatuses {
		if got := summary.Results[i].Status; got != want {
			t.Errorf("results[%d] (%s) status = %q, want %q", i, summary.Results[i].File, got, want)
		}
	}

	if summary.Results[1].Error != "synthesis failed" {
		t.Errorf("failed entry error = %q, want the server message", summary.Results[1].Error)
	}
	if !strings.Contains(summary.Results[2].Error, "submission rejected") {
		t.Errorf("error entry = %q, should carry the rejection", summary.Results[2].Error)
	}
	if summary.Successes != 2 {
		t.Errorf("Successes = %d, want 2", summary.Successes)
	}

	// Artifacts are named after the input file's stem.
	if summary.Results[0].Output != filepath.Join(outputDir, "a.wav") {
		t.Errorf("output path = %q, want %q", summary.Results[0].Output, filepath.Join(outputDir, "a.wav"))
	}
	if _, err := os.Stat(filepath.Join(outputDir, "d.wav")); err != nil {
		t.Errorf("d.wav should exist: %v", err)
	}
}

func TestProcess_WritesOrderedReport(t *testing.T) {
	svc := &batchService{}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()
	c := api.NewClient(srv.URL, nil, testLogger())

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "one.txt", "hello")
	writeInput(t, inputDir, "two.txt", "fail please")

	p := New(c, testLogger(), nil, fastOptions())
	summary, err := p.Process(context.Background(), inputDir, outputDir, speakBuilder)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if summary.ReportPath != filepath.Join(outputDir, ReportName) {
		t.Errorf("ReportPath = %q, want %q", summary.ReportPath, filepath.Join(outputDir, ReportName))
	}

	data, err := os.ReadFile(summary.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("report entries = %d, want 2", len(results))
	}
	if results[0].File != "one.txt" || results[1].File != "two.txt" {
		t.Errorf("report order = [%s %s], want lexicographic [one.txt two.txt]", results[0].File, results[1].File)
	}
	if results[1].Status != "failed" || results[1].Error == "" {
		t.Errorf("report failed entry = %+v, want failed with message", results[1])
	}
}

func TestProcess_SkipsEmptyFiles(t *testing.T) {
	svc := &batchService{}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()
	c := api.NewClient(srv.URL, nil, testLogger())

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeInput(t, inputDir, "a.txt", "hello")
	writeInput(t, inputDir, "empty.txt", "")
	writeInput(t, inputDir, "whitespace.txt", " \n\t\n")

	p := New(c, testLogger(), nil, fastOptions())
	summary, err := p.Process(context.Background(), inputDir, outputDir, speakBuilder)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(summary.Results) != 1 {
		t.Errorf("results = %d, want 1 (empty files excluded from the report)", len(summary.Results))
	}
	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
	if got := svc.submitCount(); got != 1 {
		t.Errorf("submits = %d, want 1 (no job for empty files)", got)
	}
}

func TestProcess_EmptyDirectoryStillWritesReport(t *testing.T) {
	srv := httptest.NewServer((&batchService{}).handler())
	defer srv.Close()
	c := api.NewClient(srv.URL, nil, testLogger())

	outputDir := t.TempDir()
	p := New(c, testLogger(), nil, fastOptions())
	summary, err := p.Process(context.Background(), t.TempDir(), outputDir, speakBuilder)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(summary.Results) != 0 {
		t.Errorf("results = %d, want 0", len(summary.Results))
	}

	data, err := os.ReadFile(summary.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("report = %q, want an empty JSON array", data)
	}
}

func TestProcess_ManyFilesOneFailing(t *testing.T) {
	svc := &batchService{}
	srv := httptest.NewServer(svc.handler())
	defer srv.Close()
	c := api.NewClient(srv.URL, nil, testLogger())

	const n = 8
	const failAt = 4
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("file number %d", i)
		if i == failAt {
			text = "fail please"
		}
		writeInput(t, inputDir, fmt.Sprintf("f%02d.txt", i), text)
	}

	p := New(c, testLogger(), nil, fastOptions())
	summary, err := p.Process(context.Background(), inputDir, outputDir, speakBuilder)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(summary.Results) != n {
		t.Fatalf("results = %d, want %d", len(summary.Results), n)
	}
	for i, r := range summary.Results {
		want := "success"
		if i == failAt {
			want = "failed"
		}
		if r.Status != want {
			t.Errorf("results[%d] status = %q, want %q", i, r.Status, want)
		}
	}
	if summary.Successes != n-1 {
		t.Errorf("Successes = %d, want %d", summary.Successes, n-1)
	}
}
