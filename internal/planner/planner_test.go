package planner

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"nexusai/internal/types"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Email", "mail me at alice@example.com please", "mail me at [EMAIL] please"},
		{"USPhone", "call 555-123-4567 now", "call [PHONE] now"},
		{"ParenPhone", "call (555) 123-4567 now", "call [PHONE] now"},
		{"BareDigitRun", "my number is 9876543210", "my number is [PHONE]"},
		{"CardWithDashes", "pay with 4111-1111-1111-1111", "pay with [CARD]"},
		{"SSN", "ssn 123-45-6789 on file", "ssn [SSN] on file"},
		{"WhitespaceCollapse", "find   laptops\n\tunder 40k", "find laptops under 40k"},
		{"CleanTextUnchanged", "find laptops under 40k", "find laptops under 40k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := Sanitize(long)
	require.Len(t, got, maxInstructionLen+3) // 500 chars plus "..."
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestValidateInstruction(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := ValidateInstruction("")
		require.ErrorIs(t, err, ErrInstructionRequired)
	})
	t.Run("WhitespaceOnly", func(t *testing.T) {
		_, err := ValidateInstruction("   \t\n")
		require.ErrorIs(t, err, ErrInstructionRequired)
	})
	t.Run("TooShort", func(t *testing.T) {
		_, err := ValidateInstruction("hi")
		require.ErrorIs(t, err, ErrInstructionTooShort)
	})
	t.Run("Valid", func(t *testing.T) {
		cleaned, err := ValidateInstruction("  find laptops  under 40k ")
		require.NoError(t, err)
		require.Equal(t, "find laptops under 40k", cleaned)
	})
}

func TestPlan_AlwaysStartsWithSearch(t *testing.T) {
	p := New(10)
	plan, cleaned, err := p.Plan("summarize today's technology news")
	require.NoError(t, err)
	require.Equal(t, "summarize today's technology news", cleaned)
	require.NotEmpty(t, plan.Steps)
	require.Equal(t, types.ToolSearch, plan.Steps[0].Tool)
	require.Equal(t, cleaned, plan.Steps[0].Args["query"])
}

func TestPlan_ShoppingKeywordsInsertOpenAndExtract(t *testing.T) {
	p := New(10)
	plan, _, err := p.Plan("find cheap laptops under 40000")
	require.NoError(t, err)

	tools := make([]types.PlanTool, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		tools = append(tools, s.Tool)
	}
	want := []types.PlanTool{types.ToolSearch, types.ToolOpen, types.ToolExtract}
	if diff := cmp.Diff(want, tools); diff != "" {
		t.Errorf("tool sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_DownloadKeyword(t *testing.T) {
	p := New(10)
	plan, _, err := p.Plan("download the annual report pdf")
	require.NoError(t, err)

	var found bool
	for _, s := range plan.Steps {
		if s.Tool == types.ToolDownload {
			found = true
			require.Contains(t, s.Args, "url")
			require.Contains(t, s.Args, "filename")
		}
	}
	require.True(t, found, "expected a download step")
}

func TestPlan_Deterministic(t *testing.T) {
	p := New(10)
	a, _, err := p.Plan("compare phone prices under 20000")
	require.NoError(t, err)
	b, _, err := p.Plan("compare phone prices under 20000")
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same instruction produced different plans (-first +second):\n%s", diff)
	}
}

func TestPlan_SequentialStepIDs(t *testing.T) {
	p := New(10)
	plan, _, err := p.Plan("compare laptop prices and download the spec sheet pdf and screenshot the page")
	require.NoError(t, err)
	for i, s := range plan.Steps {
		require.Equal(t, i+1, s.StepID)
	}
	require.NoError(t, ValidatePlan(plan))
}

func TestPlan_RespectsMaxSteps(t *testing.T) {
	p := New(2)
	plan, _, err := p.Plan("compare laptop prices and download the spec sheet pdf and screenshot the page")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
}

func TestPlan_SanitizesBeforePlanning(t *testing.T) {
	p := New(10)
	plan, cleaned, err := p.Plan("email results to bob@example.com about laptops under 40k")
	require.NoError(t, err)
	require.NotContains(t, cleaned, "bob@example.com")
	require.Contains(t, cleaned, "[EMAIL]")
	require.Equal(t, cleaned, plan.Steps[0].Args["query"])
}

func TestValidatePlan(t *testing.T) {
	validSearch := types.PlanStep{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: "find pages", Confidence: 0.9}

	tests := []struct {
		name    string
		plan    types.Plan
		wantErr bool
	}{
		{"Empty", types.Plan{}, true},
		{"Valid", types.Plan{Steps: []types.PlanStep{validSearch}}, false},
		{"NonSequentialIDs", types.Plan{Steps: []types.PlanStep{
			validSearch,
			{StepID: 3, Tool: types.ToolScreenshot, Args: map[string]any{}, Reason: "confirm", Confidence: 0.8},
		}}, true},
		{"UnknownTool", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: "teleport", Args: map[string]any{}, Reason: "nope", Confidence: 0.5},
		}}, true},
		{"SearchWithoutQuery", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{}, Reason: "find pages", Confidence: 0.9},
		}}, true},
		{"OpenNonHTTPURL", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolOpen, Args: map[string]any{"url": "ftp://example.com"}, Reason: "open site", Confidence: 0.8},
		}}, true},
		{"ExtractNeedsSelectorOrPattern", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolExtract, Args: map[string]any{}, Reason: "grab data", Confidence: 0.7},
		}}, true},
		{"ConfidenceOutOfRange", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: "find pages", Confidence: 1.5},
		}}, true},
		{"DownloadNeedsFilename", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolDownload, Args: map[string]any{"url": "https://example.com/a.pdf"}, Reason: "fetch file", Confidence: 0.6},
		}}, true},
		{"ReasonTooShort", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: "x", Confidence: 0.9},
		}}, true},
		{"ReasonTooLong", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: strings.Repeat("r", 501), Confidence: 0.9},
		}}, true},
		{"ReasonAtBounds", types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: strings.Repeat("r", 500), Confidence: 0.9},
		}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlan(tt.plan)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
