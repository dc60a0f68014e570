package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nexusai/internal/planner"
)

// planCmd generates an action plan for an instruction without running it.
var planCmd = &cobra.Command{
	Use:   "plan [instruction]",
	Short: "Generate an action plan for an instruction",
	Long: `Sanitizes the instruction, generates a tool plan for it, and prints
the plan as JSON. Nothing is executed; use "jobs run" to execute a plan.

Example:
  nexusai plan "find cheap laptops under 40000"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	p := planner.New(cfg.Planner.MaxSteps)

	plan, cleaned, err := p.Plan(joinArgs(args))
	if err != nil {
		return err
	}
	logger.Info("generated plan",
		zap.String("instruction", cleaned),
		zap.Int("steps", len(plan.Steps)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Instruction: %s\n", cleaned)
	return nil
}
