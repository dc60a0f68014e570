package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusai/internal/classify"
	"nexusai/internal/respond"
	"nexusai/internal/types"
)

var askMode string

// askCmd runs a query through the classifier and response generator.
var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Classify a query and print a generated response",
	Long: `Runs the query through the classifier, picks a response mode (the
first suggested mode unless --mode is given), and renders the generated
answer as markdown.

Example:
  nexusai ask "best laptops under 40000"
  nexusai ask --mode study "explain binary search"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "Response mode (quick, research, learning, study, coding)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := joinArgs(args)

	category := classify.Classify(query)
	modes := classify.SuggestedModes(category)
	logger.Info("classified query",
		zap.String("query", query),
		zap.String("category", string(category)))

	mode := modes[0]
	if askMode != "" {
		mode = types.ResponseMode(askMode)
		if !classify.ValidMode(mode) {
			return fmt.Errorf("unknown mode %q", askMode)
		}
	}

	generator := respond.NewGenerator()
	response := generator.Generate(query, mode)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	rendered, err := renderer.Render(response.Content)
	if err != nil {
		rendered = response.Content
	}

	fmt.Printf("Category: %s   Suggested modes: %s\n", category, joinModes(modes))
	fmt.Printf("Mode: %s   Confidence: %.2f   Took: %.1fs\n", response.Mode, response.Confidence, response.ProcessingTime)
	fmt.Println(rendered)
	if len(response.References) > 0 {
		fmt.Println("References:")
		for _, ref := range response.References {
			fmt.Printf("  - %s\n", ref)
		}
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func joinModes(modes []types.ResponseMode) string {
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, string(m))
	}
	return strings.Join(out, ", ")
}
