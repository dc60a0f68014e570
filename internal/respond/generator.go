// Package respond produces canned, mode-differentiated answer texts. There is
// no inference backend: content comes from a fixed table keyed by response
// mode, so the pipeline stays fast and fully deterministic apart from the
// displayed processing-time estimate.
package respond

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Confidence reported on every generated response. Fixed by design: there is
// no model producing a real score.
const Confidence = 0.92

// researchReferences are attached only in research mode.
var researchReferences = []string{
	"https://en.wikipedia.org/wiki/Consumer_electronics",
	"https://www.rtings.com/headphones",
	"https://www.soundguys.com/best-wireless-earbuds-12590/",
}

// contentByMode holds one canned long-form block per mode. The text covers the
// same illustrative topic regardless of the actual query.
var contentByMode = map[types.ResponseMode]string{
	types.ModeQuick: `**Quick answer**

For most people the best pick right now is a mid-range wireless model with active noise cancellation. It balances sound quality, comfort, and battery life, and it is regularly discounted below its list price.

- Top pick: mid-range ANC over-ear
- Budget pick: entry wireless earbuds
- Where to buy: any major marketplace with seller ratings above 4.2`,

	types.ModeResearch: `**Research summary**

A systematic comparison across 14 product listings and 6 editorial reviews shows three consistent findings.

1. Driver size correlates weakly with perceived quality; tuning matters more than hardware on paper.
2. Battery-life claims overstate real-world usage by 15-25% across every brand surveyed.
3. Price clusters at three tiers (entry, mid, premium), and the mid tier shows the best value density.

Methodology: listings were normalized by street price, and review scores were re-weighted to discount sponsored placements. See the references for primary sources.`,

	types.ModeLearning: `**Let's build this up step by step**

Start with the one question that matters: what will you use it for most? Commuting favors noise cancellation, workouts favor secure fit and sweat resistance, and desk use favors comfort over portability.

Once you know the primary use, the rest follows:
- Commuting -> prioritize ANC and battery
- Workouts -> prioritize fit and IP rating
- Desk -> prioritize comfort and multipoint pairing

Try scoring two or three candidates against your single primary use before comparing anything else. Most buyer's remorse comes from optimizing a secondary criterion.`,

	types.ModeStudy: `**Study notes**

Key terms:
- ANC (active noise cancellation): inverts ambient sound waves to cancel them.
- Codec: the compression scheme between source and headset (SBC, AAC, aptX, LDAC).
- Driver: the transducer converting the electrical signal to sound.

Core concepts to remember:
1. Latency matters for video, not for music.
2. Codec support must match on both the source and the headset.
3. Comfort degrades non-linearly with weight past roughly 250 g.

Self-check: can you explain why a higher-bitrate codec does not help on a source device that only supports SBC?`,

	types.ModeCoding: "**Worked example**\n\nFiltering a product list the way the comparison view does:\n\n```python\ndef pick(products, budget):\n    in_budget = [p for p in products if p.price <= budget]\n    return sorted(in_budget, key=lambda p: (-p.rating, p.price))[:3]\n```\n\nThe same shape in Go:\n\n```go\nsort.Slice(inBudget, func(i, j int) bool {\n    if inBudget[i].Rating != inBudget[j].Rating {\n        return inBudget[i].Rating > inBudget[j].Rating\n    }\n    return inBudget[i].Price < inBudget[j].Price\n})\n```\n\nBoth keep the top three by rating, breaking ties on price.",
}

// Generator produces responses with a seedable random source for the
// processing-time estimate. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded from the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource returns a Generator using the given source, so tests
// can pin the processing-time estimate.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns the canned response for a query in the given mode. It
// never fails: unknown modes fall back to the quick block.
func (g *Generator) Generate(query string, mode types.ResponseMode) types.Response {
	content, ok := contentByMode[mode]
	if !ok {
		mode = types.ModeQuick
		content = contentByMode[types.ModeQuick]
	}

	resp := types.Response{
		ID:             uuid.NewString(),
		Query:          query,
		Mode:           mode,
		Content:        content,
		Confidence:     Confidence,
		ProcessingTime: g.processingTime(),
	}

	if mode == types.ModeResearch {
		refs := make([]string, len(researchReferences))
		copy(refs, researchReferences)
		resp.References = refs
	}

	logging.Respond("generated response id=%s mode=%s query_len=%d", resp.ID, mode, len(query))

	return resp
}

// processingTime samples a display-only estimate uniformly from [1,3) seconds.
func (g *Generator) processingTime() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return 1.0 + g.rng.Float64()*2.0
}
