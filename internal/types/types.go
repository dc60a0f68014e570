// Package types provides shared type definitions used across nexusai packages.
// This package exists to break import cycles between classify, respond, demo,
// and the store. Types in this package should be foundational data structures
// with no complex dependencies.
package types

import (
	"time"
)

// =============================================================================
// QUERY CLASSIFICATION
// =============================================================================

// QueryCategory is the coarse intent bucket assigned to a free-text query.
type QueryCategory string

const (
	CategoryProduct  QueryCategory = "product"
	CategoryCoding   QueryCategory = "coding"
	CategoryResearch QueryCategory = "research"
	CategoryGeneral  QueryCategory = "general"
)

// ResponseMode is a selectable style/length preset for canned answers.
type ResponseMode string

const (
	ModeQuick    ResponseMode = "quick"
	ModeResearch ResponseMode = "research"
	ModeLearning ResponseMode = "learning"
	ModeStudy    ResponseMode = "study"
	ModeCoding   ResponseMode = "coding"
)

// Response is the generated answer for one query in one mode.
type Response struct {
	ID             string       `json:"id"`
	Query          string       `json:"query"`
	Mode           ResponseMode `json:"mode"`
	Content        string       `json:"content"`
	References     []string     `json:"references,omitempty"`
	Confidence     float64      `json:"confidence"`
	ProcessingTime float64      `json:"processing_time"` // seconds, display only
}

// =============================================================================
// PERSONAS AND SCRIPTED CONVERSATIONS
// =============================================================================

// PersonaRule maps a keyword set to a fixed scripted reply.
// Rules are evaluated in order; the first rule with any keyword that is a
// substring of the lower-cased message wins.
type PersonaRule struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Reply    string   `json:"reply" yaml:"reply"`
}

// Persona is a named scripted-response character. Immutable after catalog load.
type Persona struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	Title     string        `json:"title" yaml:"title"`
	Color     string        `json:"color" yaml:"color"`
	Rules     []PersonaRule `json:"rules" yaml:"rules"`
	Fallbacks []string      `json:"fallbacks" yaml:"fallbacks"`
}

// Speaker tags a transcript entry with its originating side.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// TranscriptEntry is one simulated conversational turn. Append-only; ordered
// by creation, with non-decreasing offsets.
type TranscriptEntry struct {
	ID       string  `json:"id"`
	OffsetMs int64   `json:"offset_ms"`
	Speaker  Speaker `json:"speaker"`
	Text     string  `json:"text"`
}

// Recording is a persisted, replayable simulated call session.
// Never mutated after creation except by deletion.
type Recording struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	PersonaID  string            `json:"persona_id"`
	Transcript []TranscriptEntry `json:"transcript"`
	CreatedAt  time.Time         `json:"created_at"`
	DurationMs int64             `json:"duration_ms"`
}

// ScriptTurn is one (user utterance, assistant utterance) pair of a demo script.
type ScriptTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// DemoScript is a static multi-turn conversation template for one topical field.
type DemoScript struct {
	Title     string       `json:"title"`
	PersonaID string       `json:"persona_id"`
	Turns     []ScriptTurn `json:"turns"`
}

// =============================================================================
// INSTRUCTION PLANS
// =============================================================================

// PlanTool is the action kind of a single plan step.
type PlanTool string

const (
	ToolSearch     PlanTool = "search"
	ToolOpen       PlanTool = "open"
	ToolExtract    PlanTool = "extract"
	ToolScreenshot PlanTool = "screenshot"
	ToolDownload   PlanTool = "download"
)

// PlanStep is a single step in an instruction plan.
type PlanStep struct {
	StepID     int            `json:"step_id"`
	Tool       PlanTool       `json:"tool"`
	Args       map[string]any `json:"args"`
	Reason     string         `json:"reason"`
	Confidence float64        `json:"confidence"`
}

// Plan is an ordered sequence of steps with sequential IDs starting at 1.
type Plan struct {
	Steps []PlanStep `json:"steps"`
}

// =============================================================================
// PLAN JOBS
// =============================================================================

// JobStatus is the lifecycle state of a queued plan job.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobRunning  JobStatus = "running"
	JobFinished JobStatus = "finished"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// StepResult records the simulated outcome of one executed plan step.
type StepResult struct {
	StepID     int      `json:"step_id"`
	Tool       PlanTool `json:"tool"`
	Status     string   `json:"status"`
	Output     string   `json:"output"`
	ExecutedAt string   `json:"executed_at"`
}

// Job is a queued plan execution with progress tracking.
type Job struct {
	ID          string       `json:"id"`
	Instruction string       `json:"instruction"`
	Plan        Plan         `json:"plan"`
	Status      JobStatus    `json:"status"`
	Progress    int          `json:"progress"` // 0-100
	Results     []StepResult `json:"results,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	EndedAt     *time.Time   `json:"ended_at,omitempty"`
}
