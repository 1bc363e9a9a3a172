package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wanderbot/internal/assistant"
)

func newAskCmd(opts *options) *cobra.Command {
	var (
		system        string
		exampleInput  string
		exampleOutput string
		maxTokens     int32
		stops         []string
	)
	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Send one zero-shot (or one-shot) prompt and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (exampleInput == "") != (exampleOutput == "") {
				return errors.New("--example-input and --example-output go together")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			m, err := opts.connect(ctx)
			if err != nil {
				return err
			}

			prompt := strings.Join(args, " ")
			req := assistant.ZeroShot(system, prompt)
			if exampleInput != "" {
				// One-shot prompts carry a system instruction only when asked to.
				oneShotSystem := ""
				if cmd.Flags().Changed("system") {
					oneShotSystem = system
				}
				req = assistant.OneShot(oneShotSystem, exampleInput, exampleOutput, prompt)
			}
			if maxTokens > 0 {
				req.MaxOutputTokens = maxTokens
			}
			req.StopSequences = stops

			res, err := m.Generate(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", assistant.ZeroShotSystem, "System instruction")
	cmd.Flags().StringVar(&exampleInput, "example-input", "", "Example input for one-shot prompting")
	cmd.Flags().StringVar(&exampleOutput, "example-output", "", "Example output for one-shot prompting")
	cmd.Flags().Int32Var(&maxTokens, "max-tokens", 0, "Maximum output tokens (0 = model default)")
	cmd.Flags().StringSliceVar(&stops, "stop", nil, "Stop sequences")
	return cmd
}

func newChatCmd(opts *options) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask zero-shot questions line by line until exit, quit or EOF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return readLoop(cmd, "You: ", func(line string) {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				defer cancel()
				res, err := m.Generate(ctx, assistant.ZeroShot(system, line))
				if err != nil {
					fmt.Fprintln(out, "Error:", err)
					return
				}
				fmt.Fprintln(out, "Bot:", res.Text)
			})
		},
	}
	cmd.Flags().StringVar(&system, "system", assistant.ZeroShotSystem, "System instruction")
	return cmd
}

// readLoop feeds trimmed non-empty stdin lines to turn until exit, quit or EOF.
func readLoop(cmd *cobra.Command, prompt string, turn func(line string)) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)
	out := cmd.OutOrStdout()
	for {
		fmt.Fprint(out, prompt)
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		turn(line)
	}
}
