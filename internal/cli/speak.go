package cli

import (
	"fmt"

	"github.com/catfishw/t2s/internal/api"
)

// SpeakCmd synthesizes speech with a preset speaker voice.
type SpeakCmd struct {
	Text     string `arg:"" help:"Text to speak, or @file.txt to read it from a file."`
	Speaker  string `short:"s" default:"vivian" help:"Preset speaker name."`
	Language string `short:"l" default:"Auto" help:"Language code, or Auto."`
	Instruct string `short:"i" help:"Style instruction."`
	Output   string `short:"o" required:"" help:"Output audio file."`
}

func (c *SpeakCmd) Run(cctx *Context) error {
	text, err := expandText(c.Text)
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.Out, "Generating speech with speaker: %s\n", c.Speaker)
	fmt.Fprintf(cctx.Out, "Text: %s\n", preview(text))

	return runJob(cctx, api.CustomVoice(text, c.Speaker, c.Language, c.Instruct), c.Output)
}

// DesignCmd synthesizes speech for a voice described in natural language.
type DesignCmd struct {
	Text        string `arg:"" help:"Text to speak, or @file.txt to read it from a file."`
	Description string `short:"d" required:"" help:"Natural-language voice description."`
	Language    string `short:"l" default:"Auto" help:"Language code, or Auto."`
	Output      string `short:"o" required:"" help:"Output audio file."`
}

func (c *DesignCmd) Run(cctx *Context) error {
	text, err := expandText(c.Text)
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.Out, "Designing voice: %s\n", c.Description)
	fmt.Fprintf(cctx.Out, "Text: %s\n", preview(text))

	return runJob(cctx, api.VoiceDesign(text, c.Description, c.Language), c.Output)
}
