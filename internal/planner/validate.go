package planner

import (
	"errors"
	"fmt"
	"strings"

	"nexusai/internal/types"
)

// ErrInstructionRequired is returned verbatim to API callers, so its text is
// part of the wire contract.
var ErrInstructionRequired = errors.New("Instruction is required and must be a string")

// ErrInstructionTooShort rejects instructions that survive sanitization with
// fewer than minInstructionLen characters.
var ErrInstructionTooShort = errors.New("instruction must be at least 5 characters long")

const minInstructionLen = 5

// Plan shape limits. A plan outside these bounds is malformed regardless of
// its content.
const (
	minPlanSteps = 1
	maxPlanSteps = 20

	minReasonLen = 10
	maxReasonLen = 500
)

// ValidateInstruction trims, sanitizes, and length-checks a raw instruction,
// returning the cleaned form suitable for planning.
func ValidateInstruction(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInstructionRequired
	}
	cleaned := Sanitize(strings.TrimSpace(raw))
	if len([]rune(cleaned)) < minInstructionLen {
		return "", ErrInstructionTooShort
	}
	return cleaned, nil
}

// ValidatePlan checks a plan against the schema every generated plan must
// satisfy: bounded step count, sequential step IDs starting at 1, known
// tools, per-tool argument requirements, and confidence within [0, 1].
func ValidatePlan(plan types.Plan) error {
	n := len(plan.Steps)
	if n < minPlanSteps {
		return errors.New("plan must contain at least one step")
	}
	if n > maxPlanSteps {
		return fmt.Errorf("plan has %d steps, maximum is %d", n, maxPlanSteps)
	}

	for i, step := range plan.Steps {
		if step.StepID != i+1 {
			return fmt.Errorf("step %d has id %d, step ids must be sequential starting from 1", i, step.StepID)
		}
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", step.StepID, err)
		}
	}
	return nil
}

func validateStep(step types.PlanStep) error {
	if step.Confidence < 0 || step.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0, 1]", step.Confidence)
	}
	reasonLen := len([]rune(strings.TrimSpace(step.Reason)))
	if reasonLen < minReasonLen {
		return fmt.Errorf("reason must be at least %d characters long", minReasonLen)
	}
	if reasonLen > maxReasonLen {
		return fmt.Errorf("reason must be at most %d characters long", maxReasonLen)
	}

	switch step.Tool {
	case types.ToolSearch:
		q, ok := step.Args["query"].(string)
		if !ok || strings.TrimSpace(q) == "" {
			return errors.New("search tool requires a non-empty 'query' argument")
		}
	case types.ToolOpen:
		u, ok := step.Args["url"].(string)
		if !ok || (!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://")) {
			return errors.New("open tool requires an HTTP(S) 'url' argument")
		}
	case types.ToolExtract:
		_, hasSelector := step.Args["selector"]
		_, hasPattern := step.Args["pattern"]
		if !hasSelector && !hasPattern {
			return errors.New("extract tool requires a 'selector' or 'pattern' argument")
		}
	case types.ToolScreenshot:
		// Optional 'element' or 'full_page' args only.
	case types.ToolDownload:
		if _, ok := step.Args["url"].(string); !ok {
			return errors.New("download tool requires a 'url' argument")
		}
		if _, ok := step.Args["filename"].(string); !ok {
			return errors.New("download tool requires a 'filename' argument")
		}
	default:
		return fmt.Errorf("unknown tool %q", step.Tool)
	}
	return nil
}
