// Package batch applies one job kind's submit-await-download pipeline to
// every text file in a directory, isolating per-file failures and writing
// a JSON report of the outcomes.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/catfishw/t2s/internal/api"
	"github.com/catfishw/t2s/internal/jobs"
)

// ReportName is the report file written into the output directory.
const ReportName = "batch_report.json"

// outputExt is the extension given to downloaded artifacts.
const outputExt = ".wav"

// Result records the outcome for one input file. Status is "success",
// "failed" (the job reached a failed/cancelled terminal state) or "error"
// (anything else went wrong: timeout, transport, bad response). Empty
// input files are skipped and never appear as a Result.
type Result struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates one batch run.
type Summary struct {
	RunID      string
	Results    []Result
	Successes  int
	Skipped    int
	ReportPath string
}

// BuildFunc turns one input file's text into the submission for its job.
// Shared parameters (speaker, language, reference audio) are captured by
// the closure.
type BuildFunc func(text string) api.Submission

// Processor runs batches against one client. Files are processed strictly
// in order, one job at a time.
type Processor struct {
	client *api.Client
	logger *log.Logger
	out    io.Writer
	opts   jobs.Options
}

// New creates a batch processor. out receives per-file progress lines and
// may be nil to discard them.
func New(client *api.Client, logger *log.Logger, out io.Writer, opts jobs.Options) *Processor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if out == nil {
		out = io.Discard
	}
	return &Processor{client: client, logger: logger, out: out, opts: opts}
}

// Process runs build(text) for every non-empty *.txt file in inputDir, in
// lexicographic filename order, writing each artifact as <stem>.wav into
// outputDir. A file's failure is recorded and processing continues; the
// batch itself only fails when the directories are unusable or the report
// cannot be written. The report is an ordered JSON array of Results.
func (p *Processor) Process(ctx context.Context, inputDir, outputDir string, build BuildFunc) (*Summary, error) {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("list input files: %w", err)
	}
	sort.Strings(files)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	runID := uuid.NewString()
	p.logger.Printf("batch %s: %d files in %s", runID, len(files), inputDir)
	fmt.Fprintf(p.out, "Found %d files to process\n", len(files))

	summary := &Summary{RunID: runID, Results: []Result{}}

	for i, path := range files {
		name := filepath.Base(path)
		fmt.Fprintf(p.out, "\n[%d/%d] %s\n", i+1, len(files), name)

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(p.out, "  ✗ %v\n", err)
			summary.Results = append(summary.Results, Result{File: name, Status: "error", Error: err.Error()})
			continue
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			fmt.Fprintf(p.out, "  ⚠ Empty file\n")
			summary.Skipped++
			continue
		}

		outPath := filepath.Join(outputDir, strings.TrimSuffix(name, filepath.Ext(name))+outputExt)
		summary.Results = append(summary.Results, p.runOne(ctx, name, build(text), outPath))
	}

	reportPath := filepath.Join(outputDir, ReportName)
	if err := writeReport(reportPath, summary.Results); err != nil {
		return nil, err
	}
	summary.ReportPath = reportPath

	for _, r := range summary.Results {
		if r.Status == "success" {
			summary.Successes++
		}
	}
	p.logger.Printf("batch %s: %d/%d successful", runID, summary.Successes, len(summary.Results))
	return summary, nil
}

// runOne contains each file's failures: any error from the pipeline is
// converted into a Result so the batch keeps going.
func (p *Processor) runOne(ctx context.Context, name string, sub api.Submission, outPath string) Result {
	opts := p.opts
	opts.OnSubmit = func(jobID string) {
		fmt.Fprintf(p.out, "  → %s\n", jobID)
	}

	err := jobs.Run(ctx, p.client, sub, outPath, opts)
	if err == nil {
		fmt.Fprintf(p.out, "  ✓ %s\n", filepath.Base(outPath))
		return Result{File: name, Status: "success", Output: outPath}
	}

	fmt.Fprintf(p.out, "  ✗ %v\n", err)
	var failed *jobs.FailedError
	if errors.As(err, &failed) {
		return Result{File: name, Status: "failed", Error: failed.Message}
	}
	return Result{File: name, Status: "error", Error: err.Error()}
}

func writeReport(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
