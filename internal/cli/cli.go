// Package cli defines the t2s command tree. Each subcommand is a kong
// command struct whose Run method receives the shared Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/catfishw/t2s/internal/api"
	"github.com/catfishw/t2s/internal/app"
	"github.com/catfishw/t2s/internal/jobs"
)

// CLI is the root command. Global flags override the environment-derived
// configuration; subcommands map 1:1 to service operations.
type CLI struct {
	APIURL       string        `help:"Base URL of the Text2Speech API." placeholder:"URL"`
	Local        bool          `help:"Target the local development server."`
	PollInterval time.Duration `help:"Interval between job status polls."`
	Timeout      time.Duration `help:"Deadline for a job to reach a terminal state."`

	Speak      SpeakCmd      `cmd:"" help:"Synthesize speech with a preset speaker."`
	Design     DesignCmd     `cmd:"" help:"Design a voice from a natural-language description."`
	Clone      CloneCmd      `cmd:"" help:"Clone a voice from reference audio or a preset timbre."`
	BatchSpeak BatchSpeakCmd `cmd:"" name:"batch-speak" help:"Convert a directory of text files to speech."`
	BatchClone BatchCloneCmd `cmd:"" name:"batch-clone" help:"Clone one voice across a directory of text files."`
	Encode     EncodeCmd     `cmd:"" help:"Encode an audio file into tokens."`
	Decode     DecodeCmd     `cmd:"" help:"Decode tokens back into audio."`
	Cancel     CancelCmd     `cmd:"" help:"Cancel a running job."`
	Status     StatusCmd     `cmd:"" help:"Show service health and loaded models."`
	Speakers   SpeakersCmd   `cmd:"" help:"List available speakers."`
	Languages  LanguagesCmd  `cmd:"" help:"List supported languages."`
}

// Apply folds the parsed global flags into the config.
func (c *CLI) Apply(cfg *app.Config) {
	if c.Local {
		cfg.BaseURL = app.LocalBaseURL
	}
	if c.APIURL != "" {
		cfg.BaseURL = strings.TrimRight(c.APIURL, "/")
	}
	if c.PollInterval > 0 {
		cfg.PollInterval = c.PollInterval
	}
	if c.Timeout > 0 {
		cfg.JobTimeout = c.Timeout
	}
}

// Context carries the wired dependencies into each command's Run method.
type Context struct {
	Config app.Config
	Client *api.Client
	Logger *log.Logger
	Out    io.Writer
}

func (c *Context) jobOptions() jobs.Options {
	return jobs.Options{
		Interval: c.Config.PollInterval,
		Timeout:  c.Config.JobTimeout,
	}
}

// runJob drives one submission through submit, poll and download, echoing
// the job id and poll progress along the way.
func runJob(cctx *Context, sub api.Submission, output string) error {
	opts := cctx.jobOptions()
	opts.OnSubmit = func(jobID string) {
		fmt.Fprintf(cctx.Out, "Job ID: %s\n", jobID)
	}
	opts.Observer = progressPrinter(cctx.Out)

	err := jobs.Run(context.Background(), cctx.Client, sub, output, opts)
	fmt.Fprintln(cctx.Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cctx.Out, "✓ Saved: %s\n", output)
	return nil
}

// progressPrinter rewrites a single progress line once per poll.
func progressPrinter(w io.Writer) func(api.Job) {
	return func(job api.Job) {
		if job.Progress > 0 && !job.Status.Terminal() {
			fmt.Fprintf(w, "  Progress: %d%%\r", int(job.Progress*100))
		}
	}
}

// expandText resolves the @file.txt argument form: a leading @ reads the
// text from the named file.
func expandText(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// preview shortens text for echoing back to the terminal.
func preview(text string) string {
	r := []rune(text)
	if len(r) > 60 {
		r = r[:60]
	}
	return string(r) + "..."
}
