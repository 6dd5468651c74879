package cli

import (
	"errors"
	"fmt"

	"github.com/catfishw/t2s/internal/api"
)

// CloneCmd clones a voice, either from a local reference audio file or
// from a server-side preset timbre.
type CloneCmd struct {
	Text        string `arg:"" help:"Text to speak, or @file.txt to read it from a file."`
	Audio       string `short:"a" help:"Reference audio file to clone from."`
	Timbre      string `short:"t" help:"Preset timbre to clone instead of uploading audio."`
	RefText     string `short:"r" name:"ref-text" help:"Transcript of the reference audio."`
	XVectorOnly bool   `short:"x" name:"x-vector-only" help:"Use speaker-embedding-only conditioning."`
	Instruct    string `short:"i" help:"Style instruction."`
	Language    string `short:"l" default:"Auto" help:"Language code, or Auto."`
	Output      string `short:"o" required:"" help:"Output audio file."`
}

func (c *CloneCmd) Run(cctx *Context) error {
	if (c.Audio == "") == (c.Timbre == "") {
		return errors.New("exactly one of --audio or --timbre is required")
	}

	text, err := expandText(c.Text)
	if err != nil {
		return err
	}

	var sub api.Submission
	if c.Timbre != "" {
		fmt.Fprintf(cctx.Out, "Using timbre: %s\n", c.Timbre)
		sub = api.VoiceCloneTimbre(text, c.Timbre, c.Language, c.Instruct)
	} else {
		fmt.Fprintf(cctx.Out, "Cloning from: %s\n", c.Audio)
		sub = api.VoiceClone(text, c.Audio, c.Language, c.RefText, c.XVectorOnly, c.Instruct)
	}
	fmt.Fprintf(cctx.Out, "Text: %s\n", preview(text))

	return runJob(cctx, sub, c.Output)
}
