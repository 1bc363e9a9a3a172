// Command wanderbot talks to the generative model from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wanderbot/internal/adapters/gemini"
	"wanderbot/internal/adapters/observability"
	"wanderbot/internal/domain"
	"wanderbot/internal/shared"
)

// model is what the CLI needs from the generative backend.
type model interface {
	domain.Generator
	domain.Embedder
}

// newModel is swapped out in tests.
var newModel = func(ctx context.Context, cfg shared.Config) (model, error) {
	return gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GenAIKey,
		Model:      cfg.GeminiModel,
		APIVersion: cfg.GeminiVersion,
		BaseURL:    cfg.GeminiBaseURL,
		EmbedModel: cfg.GeminiEmbedding,
	})
}

type options struct {
	timeout time.Duration
	verbose bool
	cfg     shared.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "wanderbot",
		Short:         "WanderBot travel assistant CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.cfg = shared.Load()
			env := opts.cfg.AppEnv
			if opts.verbose {
				env = "dev"
			}
			log.Logger = observability.NewCLILogger(env)
		},
	}
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Per-request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newPlanCmd(opts),
		newParseCmd(opts),
		newEmbedCmd(opts),
	)
	return root
}

// connect builds the model client; a missing key fails here, before any prompt is read.
func (o *options) connect(ctx context.Context) (model, error) {
	m, err := newModel(ctx, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to model: %w", err)
	}
	return m, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
