package cli

import (
	"context"
	"fmt"
	"strings"
)

// StatusCmd shows service health; when the service is up it also previews
// speakers and model load state. Health degradation is tolerated: an
// unreachable service prints as unavailable instead of failing the command.
type StatusCmd struct{}

func (c *StatusCmd) Run(cctx *Context) error {
	ctx := context.Background()
	health := cctx.Client.Health(ctx)

	fmt.Fprintln(cctx.Out, "=== Text2Speech Service Status ===")
	fmt.Fprintf(cctx.Out, "API: %s\n", cctx.Client.BaseURL())
	fmt.Fprintf(cctx.Out, "Status: %s\n", health.Status)
	fmt.Fprintf(cctx.Out, "Version: %s\n", orUnknown(health.Version))
	fmt.Fprintf(cctx.Out, "GPU: %t\n", health.GPUAvailable)
	fmt.Fprintf(cctx.Out, "Mock Mode: %t\n", health.MockMode)
	if health.Error != "" {
		fmt.Fprintf(cctx.Out, "Error: %s\n", health.Error)
	}

	if health.Status != "ok" {
		return nil
	}

	speakers, err := cctx.Client.Speakers(ctx)
	if err != nil {
		fmt.Fprintf(cctx.Out, "\nError fetching metadata: %v\n", err)
		return nil
	}
	fmt.Fprintf(cctx.Out, "\nSpeakers (%d):\n", len(speakers))
	for i, s := range speakers {
		if i == 5 {
			fmt.Fprintf(cctx.Out, "  ... and %d more\n", len(speakers)-5)
			break
		}
		fmt.Fprintf(cctx.Out, "  - %s: %s\n", s.Name, preview(s.Description))
	}

	models, err := cctx.Client.Models(ctx)
	if err != nil {
		fmt.Fprintf(cctx.Out, "\nError fetching metadata: %v\n", err)
		return nil
	}
	fmt.Fprintln(cctx.Out, "\nModels:")
	for _, m := range models {
		mark := "○"
		if m.Loaded {
			mark = "✓"
		}
		fmt.Fprintf(cctx.Out, "  %s %s\n", mark, m.Name)
	}
	return nil
}

// SpeakersCmd lists every preset speaker with its languages.
type SpeakersCmd struct{}

func (c *SpeakersCmd) Run(cctx *Context) error {
	speakers, err := cctx.Client.Speakers(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.Out, "=== Available Speakers ===")
	for _, s := range speakers {
		fmt.Fprintf(cctx.Out, "\n%s\n", s.Name)
		fmt.Fprintf(cctx.Out, "  Description: %s\n", s.Description)
		fmt.Fprintf(cctx.Out, "  Languages: %s\n", strings.Join(s.Languages, ", "))
	}
	return nil
}

// LanguagesCmd lists the languages the service supports.
type LanguagesCmd struct{}

func (c *LanguagesCmd) Run(cctx *Context) error {
	languages, err := cctx.Client.Languages(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.Out, "=== Supported Languages ===")
	for _, l := range languages {
		fmt.Fprintf(cctx.Out, "  %s: %s\n", l.Code, l.Name)
	}
	return nil
}

// CancelCmd cancels a running job by id.
type CancelCmd struct {
	JobID string `arg:"" name:"job-id" help:"Id of the job to cancel."`
}

func (c *CancelCmd) Run(cctx *Context) error {
	if err := cctx.Client.Cancel(context.Background(), c.JobID); err != nil {
		return err
	}
	fmt.Fprintf(cctx.Out, "✓ Cancelled: %s\n", c.JobID)
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
