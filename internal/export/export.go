// Package export renders finished jobs into the consumer-facing formats:
// JSON with the full result set and an execution trace, CSV with the
// flattened tabular fields, and a generated shell script template that
// replays the plan. None of the formats carry a schema version.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// jsonEnvelope is the JSON export shape.
type jsonEnvelope struct {
	JobID       string             `json:"job_id"`
	Instruction string             `json:"instruction"`
	Status      types.JobStatus    `json:"status"`
	Progress    int                `json:"progress"`
	CreatedAt   time.Time          `json:"created_at"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	EndedAt     *time.Time         `json:"ended_at,omitempty"`
	Error       string             `json:"error,omitempty"`
	Plan        types.Plan         `json:"plan"`
	Results     []types.StepResult `json:"results"`
	Trace       []string           `json:"trace"`
}

// JSON renders the job with its full plan, results, and a human-readable
// trace line per executed step.
func JSON(job types.Job) ([]byte, error) {
	env := jsonEnvelope{
		JobID:       job.ID,
		Instruction: job.Instruction,
		Status:      job.Status,
		Progress:    job.Progress,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		EndedAt:     job.EndedAt,
		Error:       job.Error,
		Plan:        job.Plan,
		Results:     job.Results,
		Trace:       trace(job),
	}
	if env.Results == nil {
		env.Results = []types.StepResult{}
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON export: %w", err)
	}
	logging.API("exported job %s as JSON (%d bytes)", job.ID, len(data))
	return data, nil
}

// trace builds one line per executed step, oldest first.
func trace(job types.Job) []string {
	results := make([]types.StepResult, len(job.Results))
	copy(results, job.Results)
	sort.SliceStable(results, func(i, j int) bool { return results[i].StepID < results[j].StepID })

	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("step %d %s %s at %s: %s",
			r.StepID, r.Tool, r.Status, r.ExecutedAt, r.Output))
	}
	return lines
}

// csvHeader is the flattened per-step row layout.
var csvHeader = []string{"job_id", "instruction", "step_id", "tool", "status", "output", "executed_at"}

// CSV renders one row per step result. A job with no results still yields
// the header row.
func CSV(job types.Job) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range job.Results {
		row := []string{
			job.ID,
			job.Instruction,
			fmt.Sprintf("%d", r.StepID),
			string(r.Tool),
			r.Status,
			r.Output,
			r.ExecutedAt,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	logging.API("exported job %s as CSV (%d rows)", job.ID, len(job.Results))
	return buf.Bytes(), nil
}

var scriptTemplate = template.Must(template.New("script").Funcs(template.FuncMap{
	"arg": func(args map[string]any, key string) string {
		v, ok := args[key]
		if !ok {
			return ""
		}
		return fmt.Sprint(v)
	},
}).Parse(`#!/usr/bin/env bash
# Generated automation script
# Instruction: {{.Instruction}}
# Generated: {{.Generated}}
set -euo pipefail
{{range .Steps}}
# Step {{.StepID}}: {{.Reason}}
nexusai-tool {{.Tool}}{{range .Flags}} {{.}}{{end}}
{{end}}`))

type scriptStep struct {
	StepID int
	Reason string
	Tool   types.PlanTool
	Flags  []string
}

// Script renders a shell script that replays the plan through the tool CLI,
// embedding the instruction and per-step arguments.
func Script(job types.Job, now time.Time) ([]byte, error) {
	steps := make([]scriptStep, 0, len(job.Plan.Steps))
	for _, s := range job.Plan.Steps {
		steps = append(steps, scriptStep{
			StepID: s.StepID,
			Reason: s.Reason,
			Tool:   s.Tool,
			Flags:  flagsFor(s),
		})
	}

	var buf bytes.Buffer
	err := scriptTemplate.Execute(&buf, map[string]any{
		"Instruction": job.Instruction,
		"Generated":   now.UTC().Format(time.RFC3339),
		"Steps":       steps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render script export: %w", err)
	}
	return buf.Bytes(), nil
}

// flagsFor flattens step args into stable --key value pairs.
func flagsFor(s types.PlanStep) []string {
	keys := make([]string, 0, len(s.Args))
	for k := range s.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flags := make([]string, 0, len(keys))
	for _, k := range keys {
		flags = append(flags, fmt.Sprintf("--%s %s", k, shellQuote(fmt.Sprint(s.Args[k]))))
	}
	return flags
}

func shellQuote(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, " \t'\"\\$`") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
