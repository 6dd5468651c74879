package main

import (
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"

	"github.com/catfishw/t2s/internal/api"
	"github.com/catfishw/t2s/internal/app"
	"github.com/catfishw/t2s/internal/cli"
)

func main() {
	cfg := app.LoadConfigFromEnv()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	var root cli.CLI
	kctx := kong.Parse(&root,
		kong.Name("t2s"),
		kong.Description("Command-line client for the Qwen3-TTS Text2Speech service."),
		kong.UsageOnError(),
	)
	root.Apply(&cfg)

	// Error monitoring, enabled only when a DSN is configured.
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: getEnvironment(),
		})
		if err != nil {
			logger.Printf("sentry init failed: %v", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	client := api.NewClient(cfg.BaseURL, app.NewHTTPClient(cfg.HTTPTimeout), logger)

	err := kctx.Run(&cli.Context{
		Config: cfg,
		Client: client,
		Logger: logger,
		Out:    os.Stdout,
	})
	if err != nil && sentryEnabled {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
	}
	kctx.FatalIfErrorf(err)
}

func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}
