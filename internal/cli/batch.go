package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/catfishw/t2s/internal/api"
	"github.com/catfishw/t2s/internal/batch"
)

// BatchSpeakCmd converts every text file in a directory to speech with a
// shared preset speaker. One file's failure never stops the batch.
type BatchSpeakCmd struct {
	InputDir  string `arg:"" name:"input-dir" help:"Directory with .txt files."`
	OutputDir string `arg:"" name:"output-dir" help:"Directory for audio files and the report."`
	Speaker   string `short:"s" default:"vivian" help:"Preset speaker name."`
	Language  string `short:"l" default:"Auto" help:"Language code, or Auto."`
	Instruct  string `short:"i" help:"Style instruction."`
}

func (c *BatchSpeakCmd) Run(cctx *Context) error {
	p := batch.New(cctx.Client, cctx.Logger, cctx.Out, cctx.jobOptions())
	summary, err := p.Process(context.Background(), c.InputDir, c.OutputDir, func(text string) api.Submission {
		return api.CustomVoice(text, c.Speaker, c.Language, c.Instruct)
	})
	if err != nil {
		return err
	}
	printSummary(cctx, summary)
	return nil
}

// BatchCloneCmd clones one reference voice across every text file in a
// directory.
type BatchCloneCmd struct {
	InputDir  string `arg:"" name:"input-dir" help:"Directory with .txt files."`
	OutputDir string `arg:"" name:"output-dir" help:"Directory for audio files and the report."`
	Audio     string `short:"a" required:"" help:"Reference audio file to clone from."`
	RefText   string `short:"r" name:"ref-text" help:"Transcript of the reference audio."`
	Language  string `short:"l" default:"Auto" help:"Language code, or Auto."`
}

func (c *BatchCloneCmd) Run(cctx *Context) error {
	if _, err := os.Stat(c.Audio); err != nil {
		return fmt.Errorf("reference audio: %w", err)
	}
	fmt.Fprintf(cctx.Out, "Cloning voice from: %s\n", c.Audio)

	p := batch.New(cctx.Client, cctx.Logger, cctx.Out, cctx.jobOptions())
	summary, err := p.Process(context.Background(), c.InputDir, c.OutputDir, func(text string) api.Submission {
		return api.VoiceClone(text, c.Audio, c.Language, c.RefText, false, "")
	})
	if err != nil {
		return err
	}
	printSummary(cctx, summary)
	return nil
}

func printSummary(cctx *Context, s *batch.Summary) {
	fmt.Fprintf(cctx.Out, "\nComplete: %d/%d successful\n", s.Successes, len(s.Results))
	fmt.Fprintf(cctx.Out, "Report: %s\n", s.ReportPath)
}
