package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nexusai/internal/types"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  types.QueryCategory
	}{
		{"Empty", "", types.CategoryGeneral},
		{"CodingKeyword", "implement binary search in go", types.CategoryCoding},
		{"CodingBeatsProduct", "cheap python programming laptop", types.CategoryCoding},
		{"CodeToken", "fix myFunc() returning nil", types.CategoryCoding},
		{"PriceRupee", "headset ₹1000", types.CategoryProduct},
		{"PriceUnder", "gaming mouse under 5000", types.CategoryProduct},
		{"ProductKeyword", "best budget shoes", types.CategoryProduct},
		{"SingleResearchKeywordFallsThrough", "climate impact", types.CategoryGeneral},
		{"TwoResearchKeywords", "explain the impact of the printing press", types.CategoryResearch},
		{"QuestionMark", "is the earth flat?", types.CategoryResearch},
		{"QuestionOpener", "what happened in 1947", types.CategoryResearch},
		{"PlainStatement", "good morning everyone", types.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// The research branch requires more than one keyword hit while coding and
// product fire on a single hit. Guard the asymmetry explicitly.
func TestClassify_AsymmetricThresholds(t *testing.T) {
	if got := Classify("deep analysis"); got != types.CategoryGeneral {
		t.Errorf("single research keyword should not classify as research, got %q", got)
	}
	if got := Classify("laptop"); got != types.CategoryProduct {
		t.Errorf("single product keyword should classify as product, got %q", got)
	}
	if got := Classify("recursion"); got != types.CategoryCoding {
		t.Errorf("single coding keyword should classify as coding, got %q", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		if got := Classify("compare prices for running shoes"); got != types.CategoryProduct {
			t.Fatalf("iteration %d: got %q", i, got)
		}
	}
}

func TestSuggestedModes(t *testing.T) {
	tests := []struct {
		category types.QueryCategory
		want     []types.ResponseMode
	}{
		{types.CategoryCoding, []types.ResponseMode{types.ModeCoding, types.ModeStudy}},
		{types.CategoryResearch, []types.ResponseMode{types.ModeResearch, types.ModeStudy}},
		{types.CategoryProduct, []types.ResponseMode{types.ModeQuick, types.ModeResearch}},
		{types.CategoryGeneral, []types.ResponseMode{types.ModeQuick}},
		{types.QueryCategory("bogus"), []types.ResponseMode{types.ModeQuick}},
	}

	for _, tt := range tests {
		first := SuggestedModes(tt.category)
		second := SuggestedModes(tt.category)
		if diff := cmp.Diff(tt.want, first); diff != "" {
			t.Errorf("SuggestedModes(%q) mismatch (-want +got):\n%s", tt.category, diff)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("SuggestedModes(%q) not stable (-first +second):\n%s", tt.category, diff)
		}
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []types.ResponseMode{types.ModeQuick, types.ModeResearch, types.ModeLearning, types.ModeStudy, types.ModeCoding} {
		if !ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if ValidMode(types.ResponseMode("verbose")) {
		t.Error("ValidMode accepted an unknown mode")
	}
}
