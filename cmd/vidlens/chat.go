// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidlens/vidlens/internal/assistant"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/pipeline"
)

// Chat-specific flag values.
var (
	chatDataset string
	chatSource  string
	chatChart   string
)

// chatCmd asks the assistant one question about a chart.
var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask the data assistant a question",
	Long: `Ask the data assistant one question. The answer is grounded in the
current view of a chart (the default chart unless --chart is given) and in
the statistics of the underlying videos.

Requires ANTHROPIC_API_KEY unless assistant.provider is none.

Examples:
  vidlens chat "Which category grew fastest this week?"
  vidlens chat --dataset videos.json --chart categories "What share does Music have?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatDataset, "dataset", "", "dataset export to ground the answer in")
	chatCmd.Flags().StringVar(&chatSource, "source", "", "crawler backend base URL (overrides source.base_url)")
	chatCmd.Flags().StringVarP(&chatChart, "chart", "c", "", "chart whose view grounds the answer")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	asst, err := newAssistant(cfg)
	if err != nil {
		return exitError(ExitUnavailable, "vidlens: assistant unavailable (%v)", err)
	}
	if asst == nil {
		return exitError(ExitUnavailable, "vidlens: assistant disabled (assistant.provider is none)")
	}
	return askQuestion(cmd, asst, cfg, strings.Join(args, " "))
}

// askQuestion grounds question in the chart view and asks asst.
func askQuestion(cmd *cobra.Command, asst *assistant.Assistant, cfg *config.Config, question string) error {
	src, err := openSource(cfg, chatDataset, chatSource)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	raw, err := src.Fetch(ctx)
	if err != nil {
		return exitError(ExitDataFailure, "vidlens: fetch %s (%v)", src.Name(), err)
	}
	ex, err := pipeline.Explore(ctx, cfg, raw, pipeline.ExploreOptions{Chart: chatChart})
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}

	answer, err := asst.Ask(ctx, assistant.NewSession(), question, assistant.Grounding{View: &ex.View, Videos: ex.Videos})
	if err != nil {
		return fmt.Errorf("vidlens: %w", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, strings.TrimSpace(answer.Response))
	if len(answer.Suggestions) > 0 {
		_, _ = fmt.Fprintln(w, "\nYou could also ask:")
		for _, s := range answer.Suggestions {
			_, _ = fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	return nil
}
