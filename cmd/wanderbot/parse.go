package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wanderbot/internal/app"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <submission text...>",
		Short: "Turn a free-text travel story into a structured JSON draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			m, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			draft, err := app.ParseSubmission(ctx, m, strings.Join(args, " "))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(draft)
		},
	}
}

func newEmbedCmd(opts *options) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "embed <text...>",
		Short: "Print the embedding vector of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			m, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			vec, err := m.Embed(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dimensions: %d\n", len(vec))
			shown := vec
			if !full && len(shown) > 8 {
				shown = shown[:8]
			}
			fmt.Fprintf(out, "values: %v", shown)
			if len(shown) < len(vec) {
				fmt.Fprint(out, " ...")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print every component")
	return cmd
}
