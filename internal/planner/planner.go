// Package planner converts natural language instructions into structured
// action plans over a small fixed tool set. Plans are produced by keyword
// triggered step insertion, so identical instructions always yield identical
// plans. Instructions are sanitized for PII before they appear in a plan,
// a log line, or a response.
package planner

import (
	"strings"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// =============================================================================
// KEYWORD RULES
// =============================================================================

// stepRule inserts extra steps after the opening search when any of its
// trigger words appear in the instruction.
type stepRule struct {
	triggers []string
	build    func(instruction string) []types.PlanStep
}

var stepRules = []stepRule{
	{
		triggers: []string{"buy", "price", "under", "cheap", "budget", "compare", "shop", "product", "laptop", "phone", "headphone"},
		build: func(instruction string) []types.PlanStep {
			return []types.PlanStep{
				{
					Tool:       types.ToolOpen,
					Args:       map[string]any{"url": "https://www.flipkart.com"},
					Reason:     "Open a major e-commerce site to browse matching listings",
					Confidence: 0.8,
				},
				{
					Tool:       types.ToolExtract,
					Args:       map[string]any{"selector": ".product-card .price"},
					Reason:     "Extract listed prices to compare against the request",
					Confidence: 0.7,
				},
			}
		},
	},
	{
		triggers: []string{"download", "pdf", "save a copy", "report file"},
		build: func(instruction string) []types.PlanStep {
			return []types.PlanStep{{
				Tool:       types.ToolDownload,
				Args:       map[string]any{"url": "https://example.com/document.pdf", "filename": "document.pdf"},
				Reason:     "Download the requested document for offline use",
				Confidence: 0.6,
			}}
		},
	},
	{
		triggers: []string{"extract", "scrape", "table", "list of", "collect"},
		build: func(instruction string) []types.PlanStep {
			return []types.PlanStep{{
				Tool:       types.ToolExtract,
				Args:       map[string]any{"pattern": `\d[\d,.]*`},
				Reason:     "Extract the structured data the instruction asks for",
				Confidence: 0.7,
			}}
		},
	},
	{
		triggers: []string{"screenshot", "capture", "show me"},
		build: func(instruction string) []types.PlanStep {
			return []types.PlanStep{{
				Tool:       types.ToolScreenshot,
				Args:       map[string]any{"full_page": true},
				Reason:     "Capture the page so the result can be reviewed visually",
				Confidence: 0.8,
			}}
		},
	},
}

// =============================================================================
// PLANNER
// =============================================================================

// Planner builds action plans from instructions.
type Planner struct {
	maxSteps int
}

// New returns a planner capped at maxSteps steps per plan. Values outside
// the schema bounds fall back to 10.
func New(maxSteps int) *Planner {
	if maxSteps < minPlanSteps || maxSteps > maxPlanSteps {
		maxSteps = 10
	}
	return &Planner{maxSteps: maxSteps}
}

// Plan validates and sanitizes the instruction, then generates a plan for it.
// The returned string is the sanitized instruction, which is what callers
// should echo back or persist.
func (p *Planner) Plan(raw string) (types.Plan, string, error) {
	cleaned, err := ValidateInstruction(raw)
	if err != nil {
		return types.Plan{}, "", err
	}

	lower := strings.ToLower(cleaned)

	// Every plan opens with a search for the instruction itself.
	steps := []types.PlanStep{{
		Tool:       types.ToolSearch,
		Args:       map[string]any{"query": cleaned},
		Reason:     "Search the web for pages relevant to the instruction",
		Confidence: 0.9,
	}}

	for _, rule := range stepRules {
		if len(steps) >= p.maxSteps {
			break
		}
		if !matchesAny(lower, rule.triggers) {
			continue
		}
		for _, step := range rule.build(cleaned) {
			if len(steps) >= p.maxSteps {
				break
			}
			steps = append(steps, step)
		}
	}

	// A bare search is not a useful demo plan; close with a confirmation shot.
	if len(steps) == 1 && p.maxSteps > 1 {
		steps = append(steps, types.PlanStep{
			Tool:       types.ToolScreenshot,
			Args:       map[string]any{"full_page": true},
			Reason:     "Capture the search results for visual confirmation",
			Confidence: 0.8,
		})
	}

	for i := range steps {
		steps[i].StepID = i + 1
	}

	plan := types.Plan{Steps: steps}
	if err := ValidatePlan(plan); err != nil {
		return types.Plan{}, "", err
	}

	logging.Planner("generated %d-step plan for %q", len(plan.Steps), cleaned)
	return plan, cleaned, nil
}

func matchesAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
