package persona

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Engine picks a persona's scripted reply for a user message. Matching is a
// deterministic first-rule-wins lookup; only the fallback choice is random,
// via a seedable source so tests can pin it. No state is retained across
// calls.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine returns an engine seeded from the wall clock.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource returns an engine using the given random source.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// Respond returns the persona's reply to a user message. The message is
// lower-cased and the persona's rules are scanned in order; the first rule
// with any keyword appearing as a substring wins. With no match (including
// the empty message) one of the persona's fallbacks is chosen uniformly at
// random. Never fails.
func (e *Engine) Respond(p types.Persona, userMessage string) string {
	lower := strings.ToLower(userMessage)

	for i, rule := range p.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				logging.PersonaDebug("persona=%s rule=%d keyword=%q matched", p.ID, i, kw)
				return rule.Reply
			}
		}
	}

	if len(p.Fallbacks) == 0 {
		// A persona without fallbacks is a catalog authoring error; stay total.
		return "Tell me more about that."
	}

	e.mu.Lock()
	idx := e.rng.Intn(len(p.Fallbacks))
	e.mu.Unlock()

	logging.PersonaDebug("persona=%s no rule matched, fallback=%d", p.ID, idx)
	return p.Fallbacks[idx]
}
