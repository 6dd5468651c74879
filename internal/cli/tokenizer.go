package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// EncodeCmd turns an audio file into a token sequence.
type EncodeCmd struct {
	Audio  string `arg:"" help:"Audio file to encode."`
	Output string `short:"o" help:"Write the token set as JSON to this file instead of stdout."`
}

func (c *EncodeCmd) Run(cctx *Context) error {
	fmt.Fprintf(cctx.Out, "Encoding: %s\n", c.Audio)

	ts, err := cctx.Client.Encode(context.Background(), c.Audio)
	if err != nil {
		return err
	}
	fmt.Fprintf(cctx.Out, "✓ Tokens: %d\n", ts.Count)

	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token set: %w", err)
	}
	if c.Output == "" {
		fmt.Fprintln(cctx.Out, string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("write token set: %w", err)
	}
	fmt.Fprintf(cctx.Out, "Saved: %s\n", c.Output)
	return nil
}

// DecodeCmd turns a token sequence back into audio. The tokens file may be
// either a bare JSON array or an object with a "tokens" field, matching
// what encode produces.
type DecodeCmd struct {
	TokensFile string `arg:"" name:"tokens-file" help:"JSON file holding the tokens."`
	Output     string `short:"o" required:"" help:"Output audio file."`
}

func (c *DecodeCmd) Run(cctx *Context) error {
	fmt.Fprintf(cctx.Out, "Decoding: %s\n", c.TokensFile)

	tokens, err := readTokensFile(c.TokensFile)
	if err != nil {
		return err
	}
	if err := cctx.Client.Decode(context.Background(), tokens, c.Output); err != nil {
		return err
	}
	fmt.Fprintf(cctx.Out, "✓ Saved: %s\n", c.Output)
	return nil
}

func readTokensFile(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokens file: %w", err)
	}

	var wrapped struct {
		Tokens []int `json:"tokens"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Tokens != nil {
		return wrapped.Tokens, nil
	}

	var tokens []int
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse tokens file %s: %w", path, err)
	}
	return tokens, nil
}
