// Package persona holds the scripted-response characters used to simulate an
// AI counterpart in demo calls, and the rule engine that picks their replies.
package persona

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Catalog is the fixed set of personas available to the demo. The built-in
// set is defined at process start; a YAML file may replace it wholesale
// (hot-reloaded in serve mode). Reads vastly outnumber reloads.
type Catalog struct {
	mu       sync.RWMutex
	personas []types.Persona
}

// Default returns a catalog with the built-in personas.
func Default() *Catalog {
	return &Catalog{personas: builtinPersonas()}
}

// LoadFile returns a catalog read from a YAML file. The file holds a list of
// personas; an empty or invalid file is an error rather than an empty catalog
// so a bad deploy cannot silently remove every character.
func LoadFile(path string) (*Catalog, error) {
	c := &Catalog{}
	if err := c.ReloadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// ReloadFile replaces the catalog contents from a YAML file.
func (c *Catalog) ReloadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read persona catalog: %w", err)
	}

	var personas []types.Persona
	if err := yaml.Unmarshal(data, &personas); err != nil {
		return fmt.Errorf("failed to parse persona catalog: %w", err)
	}
	if len(personas) == 0 {
		return fmt.Errorf("persona catalog %s contains no personas", path)
	}
	for _, p := range personas {
		if p.ID == "" {
			return fmt.Errorf("persona catalog %s contains a persona without an id", path)
		}
	}

	c.mu.Lock()
	c.personas = personas
	c.mu.Unlock()

	logging.Persona("catalog reloaded from %s: %d personas", path, len(personas))
	return nil
}

// Find returns the persona with the given identifier.
func (c *Catalog) Find(id string) (types.Persona, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.personas {
		if p.ID == id {
			return p, true
		}
	}
	return types.Persona{}, false
}

// FindOrFirst resolves an identifier, defaulting to the catalog's first
// persona when the identifier is unknown.
func (c *Catalog) FindOrFirst(id string) types.Persona {
	if p, ok := c.Find(id); ok {
		return p
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.personas[0]
}

// All returns a copy of the catalog contents.
func (c *Catalog) All() []types.Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// builtinPersonas is the default character set. One persona per demo field,
// plus a generalist that unknown fields resolve to first.
func builtinPersonas() []types.Persona {
	return []types.Persona{
		{
			ID:    "nova",
			Name:  "Nova",
			Title: "General Assistant",
			Color: "#6366f1",
			Rules: []types.PersonaRule{
				{Keywords: []string{"hello", "hi", "hey"}, Reply: "Hi there! Great to see you. What would you like to talk about today?"},
				{Keywords: []string{"help", "stuck", "confused"}, Reply: "No problem, let's take it one step at a time. Tell me where you got stuck and we'll work from there."},
				{Keywords: []string{"thank", "thanks"}, Reply: "You're very welcome! That's what I'm here for."},
				{Keywords: []string{"bye", "goodbye", "see you"}, Reply: "It was lovely talking with you. Come back any time!"},
			},
			Fallbacks: []string{
				"That's an interesting point. Could you tell me a bit more about what you mean?",
				"I hear you. As your general assistant, I'd suggest we break that down together.",
				"Let me think about that with you. What part matters most to you right now?",
			},
		},
		{
			ID:    "health-coach",
			Name:  "Maya",
			Title: "Health & Fitness Coach",
			Color: "#22c55e",
			Rules: []types.PersonaRule{
				{Keywords: []string{"workout", "exercise", "training"}, Reply: "For your goals I'd start with three full-body sessions a week. Consistency beats intensity every single time."},
				{Keywords: []string{"diet", "nutrition", "eat", "food"}, Reply: "Think of food as fuel: protein with every meal, vegetables for volume, and don't fear carbs around your workouts."},
				{Keywords: []string{"sleep", "tired", "energy"}, Reply: "Recovery is where the progress happens. Aim for a consistent sleep window before you change anything else."},
				{Keywords: []string{"weight", "fat", "lose"}, Reply: "Sustainable loss is about a small daily deficit you can hold for months, not a crash week you can hold for days."},
				{Keywords: []string{"motivation", "give up", "lazy"}, Reply: "Motivation follows action, not the other way round. Commit to just ten minutes today and see what happens."},
			},
			Fallbacks: []string{
				"As your fitness coach, I'd say the fundamentals apply here too: consistency, recovery, and patience.",
				"Good question! From a health perspective, small daily habits will move that needle.",
				"Let's connect that back to your routine. What does your current week look like?",
			},
		},
		{
			ID:    "chef",
			Name:  "Luca",
			Title: "Head Chef",
			Color: "#f97316",
			Rules: []types.PersonaRule{
				{Keywords: []string{"recipe", "cook", "make"}, Reply: "Here's the trick: read the whole recipe first, prep everything before the heat goes on, and taste as you go."},
				{Keywords: []string{"pasta", "italian"}, Reply: "Salt the water like the sea, save a cup of the starchy water, and finish the pasta in the sauce. That's the whole secret."},
				{Keywords: []string{"spice", "flavor", "bland"}, Reply: "Bland usually means under-salted or under-acidified. A squeeze of lemon at the end fixes more dishes than any spice rack."},
				{Keywords: []string{"knife", "cut", "chop"}, Reply: "A sharp knife is a safe knife. Curl your fingertips, let the blade rock, and slow down until the motion feels natural."},
			},
			Fallbacks: []string{
				"In the kitchen we'd approach that simply: good ingredients, high heat, and courage.",
				"Chef's instinct says: taste it, adjust the salt, then decide.",
				"That reminds me of a dish! Tell me what's in your fridge and let's work with it.",
			},
		},
		{
			ID:    "tech-mentor",
			Name:  "Priya",
			Title: "Senior Engineer & Mentor",
			Color: "#3b82f6",
			Rules: []types.PersonaRule{
				{Keywords: []string{"bug", "error", "crash"}, Reply: "First, reproduce it reliably. A bug you can reproduce on demand is already half fixed."},
				{Keywords: []string{"learn", "beginner", "start"}, Reply: "Pick one small project you actually want to exist, and learn exactly what that project demands. Courses come second."},
				{Keywords: []string{"interview", "leetcode", "job"}, Reply: "Interviews reward communicating your thinking. Practice narrating your approach out loud, not just solving silently."},
				{Keywords: []string{"architecture", "design", "scale"}, Reply: "Start with the boring design that works, and add complexity only when a measurement tells you to."},
			},
			Fallbacks: []string{
				"From an engineering standpoint, I'd reduce that to the smallest version that could work.",
				"Good instinct to ask. What have you tried so far? That usually tells us the next step.",
				"Let's rubber-duck it: explain the problem to me as if I knew nothing about your code.",
			},
		},
		{
			ID:    "finance-advisor",
			Name:  "Daniel",
			Title: "Personal Finance Advisor",
			Color: "#eab308",
			Rules: []types.PersonaRule{
				{Keywords: []string{"save", "saving", "budget"}, Reply: "Pay yourself first: automate a transfer on payday, even a small one, before you budget the rest."},
				{Keywords: []string{"invest", "stock", "market"}, Reply: "For most people, boring wins: broad index funds, regular contributions, and a horizon measured in decades."},
				{Keywords: []string{"debt", "loan", "credit"}, Reply: "List every balance by interest rate. Highest rate gets the extra payment; the rest get minimums. Simple and effective."},
				{Keywords: []string{"emergency", "fund"}, Reply: "Before anything fancy: three to six months of expenses somewhere you can reach in a day."},
			},
			Fallbacks: []string{
				"As your advisor I'd zoom out first: what is the money for, and when do you need it?",
				"Money questions are usually habit questions. What does your monthly cash flow look like?",
				"Sensible to ask. The answer depends on your horizon; how many years are we planning for?",
			},
		},
	}
}
