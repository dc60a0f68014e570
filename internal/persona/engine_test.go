package persona

import (
	"math/rand"
	"testing"

	"nexusai/internal/types"
)

func testPersona() types.Persona {
	return types.Persona{
		ID:    "test-coach",
		Name:  "Test",
		Title: "Coach",
		Rules: []types.PersonaRule{
			{Keywords: []string{"workout", "exercise"}, Reply: "Train three times a week."},
			{Keywords: []string{"diet", "exercise plan"}, Reply: "Protein with every meal."},
		},
		Fallbacks: []string{"fallback one", "fallback two", "fallback three"},
	}
}

func TestRespond_FirstRuleWins(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(1))
	p := testPersona()

	// "exercise" appears in both rules' keyword sets; rule order decides.
	got := e.Respond(p, "what exercise plan should I follow")
	if got != "Train three times a week." {
		t.Errorf("Respond = %q, want first rule's reply", got)
	}
}

func TestRespond_CaseInsensitiveSubstring(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(1))
	p := testPersona()

	if got := e.Respond(p, "MY WORKOUT ROUTINE"); got != "Train three times a week." {
		t.Errorf("Respond = %q, want rule reply for upper-cased keyword", got)
	}
}

func TestRespond_DeterministicOnMatch(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(7))
	p := testPersona()

	first := e.Respond(p, "tell me about my diet")
	for i := 0; i < 10; i++ {
		if got := e.Respond(p, "tell me about my diet"); got != first {
			t.Fatalf("iteration %d: reply changed from %q to %q", i, first, got)
		}
	}
}

func TestRespond_FallbackOnNoMatch(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(3))
	p := testPersona()

	got := e.Respond(p, "completely unrelated message")
	found := false
	for _, fb := range p.Fallbacks {
		if got == fb {
			found = true
		}
	}
	if !found {
		t.Errorf("Respond = %q, want one of the fallbacks", got)
	}
}

func TestRespond_EmptyMessageAlwaysFallback(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(4))
	p := testPersona()

	for i := 0; i < 10; i++ {
		got := e.Respond(p, "")
		found := false
		for _, fb := range p.Fallbacks {
			if got == fb {
				found = true
			}
		}
		if !found {
			t.Fatalf("iteration %d: %q is not a fallback", i, got)
		}
	}
}

func TestRespond_SeededFallbackReproducible(t *testing.T) {
	p := testPersona()

	a := NewEngineWithSource(rand.NewSource(42))
	b := NewEngineWithSource(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		ra := a.Respond(p, "no keywords here")
		rb := b.Respond(p, "no keywords here")
		if ra != rb {
			t.Fatalf("iteration %d: engines with equal seeds diverged: %q vs %q", i, ra, rb)
		}
	}
}

func TestRespond_NoFallbacksStaysTotal(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(5))
	p := testPersona()
	p.Fallbacks = nil

	if got := e.Respond(p, "nothing matches"); got == "" {
		t.Error("Respond returned empty string for persona without fallbacks")
	}
}
