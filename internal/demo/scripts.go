// Package demo provides the pre-authored call scripts for each topical field
// and materializes them into storable recordings with synthetic timestamps.
package demo

import (
	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// ScriptsForField returns the demo scripts for a topical field: exactly three
// per recognized field, one generic script for anything else. Pure static
// lookup; never fails.
func ScriptsForField(field string) []types.DemoScript {
	scripts, ok := scriptCatalog[field]
	if !ok {
		logging.Demo("unrecognized field %q, using generic script", field)
		return []types.DemoScript{genericScript}
	}
	out := make([]types.DemoScript, len(scripts))
	copy(out, scripts)
	return out
}

// Fields returns the recognized field identifiers.
func Fields() []string {
	return []string{"fitness", "cooking", "coding", "finance"}
}

var genericScript = types.DemoScript{
	Title:     "Getting started",
	PersonaID: "nova",
	Turns: []types.ScriptTurn{
		{User: "Hi! What can you help me with?", Assistant: "Hi there! Great to see you. I can help with fitness, cooking, coding, or money questions. What's on your mind?"},
		{User: "I'm not sure where to start.", Assistant: "That's completely fine. Tell me about your day and we'll find something worth improving together."},
		{User: "Okay, my mornings are always chaotic.", Assistant: "Mornings are a great place to begin. One fixed anchor habit, like a ten minute routine, usually calms the whole morning down."},
		{User: "I'll try that, thanks!", Assistant: "You're welcome! Come back and tell me how the first week goes."},
	},
}

// scriptCatalog holds exactly three scripts per recognized field, each with
// exactly four conversation pairs. Recording materialization depends on the
// four-pair shape for its golden offsets.
var scriptCatalog = map[string][]types.DemoScript{
	"fitness": {
		{
			Title:     "Planning a beginner workout week",
			PersonaID: "health-coach",
			Turns: []types.ScriptTurn{
				{User: "I want to get back into exercise after a long break.", Assistant: "Welcome back! For your goals I'd start with three full-body sessions a week. Consistency beats intensity every single time."},
				{User: "How long should each session be?", Assistant: "Forty five minutes is plenty: ten to warm up, thirty of focused work, five to cool down."},
				{User: "What if I miss a day?", Assistant: "Then you train the next day and move on. One missed session never matters; quitting over guilt does."},
				{User: "That takes the pressure off. Thanks, Maya!", Assistant: "Any time! Check in after your first week and we'll adjust together."},
			},
		},
		{
			Title:     "Eating for energy",
			PersonaID: "health-coach",
			Turns: []types.ScriptTurn{
				{User: "I keep crashing every afternoon. Is it my diet?", Assistant: "Very likely. Think of food as fuel: protein with every meal, vegetables for volume, and don't fear carbs around your workouts."},
				{User: "So I shouldn't skip lunch?", Assistant: "Definitely not. A skipped lunch almost always becomes a vending machine dinner."},
				{User: "What about coffee?", Assistant: "Coffee is fine before two in the afternoon. After that it starts borrowing energy from tomorrow."},
				{User: "Got it. I'll fix lunch first.", Assistant: "Perfect choice. One meal at a time is exactly how this works."},
			},
		},
		{
			Title:     "Sleep and recovery basics",
			PersonaID: "health-coach",
			Turns: []types.ScriptTurn{
				{User: "I train hard but I'm not seeing progress.", Assistant: "Recovery is where the progress happens. Aim for a consistent sleep window before you change anything else."},
				{User: "I sleep about six hours a night.", Assistant: "That's your bottleneck. Push toward seven and a half and your lifts will thank you within two weeks."},
				{User: "Any tips for falling asleep faster?", Assistant: "Same time every night, screens away thirty minutes before, and keep the room cooler than feels natural."},
				{User: "I'll start tonight.", Assistant: "That's the spirit. Recovery is training too, remember that."},
			},
		},
	},
	"cooking": {
		{
			Title:     "Weeknight pasta that actually tastes good",
			PersonaID: "chef",
			Turns: []types.ScriptTurn{
				{User: "My pasta always comes out bland. Help!", Assistant: "Salt the water like the sea, save a cup of the starchy water, and finish the pasta in the sauce. That's the whole secret."},
				{User: "Finish it in the sauce? Not just pour sauce on top?", Assistant: "Exactly. The last two minutes of cooking happen in the pan, so the sauce clings instead of sliding off."},
				{User: "What about cheese?", Assistant: "Off the heat, always. Add it too early and it splits into grease instead of melting into silk."},
				{User: "Tonight's dinner just got better. Thanks, Luca!", Assistant: "Buon appetito! Tell me how it turns out."},
			},
		},
		{
			Title:     "Knife skills for beginners",
			PersonaID: "chef",
			Turns: []types.ScriptTurn{
				{User: "I'm scared of my chef's knife, honestly.", Assistant: "A sharp knife is a safe knife. Curl your fingertips, let the blade rock, and slow down until the motion feels natural."},
				{User: "Mine is probably dull, though.", Assistant: "Dull is dangerous: it slips instead of biting. A ten dollar sharpener changes everything."},
				{User: "How do I practice without ruining dinner?", Assistant: "Buy a bag of onions and dice the lot on a Sunday. Freeze them; future you gets prepped onions and better knife work."},
				{User: "That's clever. I'll do exactly that.", Assistant: "That's how every cook I've trained started. Enjoy the practice!"},
			},
		},
		{
			Title:     "Fixing a bland dish",
			PersonaID: "chef",
			Turns: []types.ScriptTurn{
				{User: "My soup tastes flat and I don't know why.", Assistant: "Bland usually means under-salted or under-acidified. A squeeze of lemon at the end fixes more dishes than any spice rack."},
				{User: "Lemon in soup? Really?", Assistant: "Really. Acid wakes up flavors that salt alone can't reach. Vinegar works too, a teaspoon at a time."},
				{User: "How do I know when it's right?", Assistant: "Taste after every addition. The moment the flavors feel bright instead of muddy, stop."},
				{User: "Off to rescue my soup. Thanks!", Assistant: "Go! And remember: taste, adjust, taste again."},
			},
		},
	},
	"coding": {
		{
			Title:     "Debugging a mystery crash",
			PersonaID: "tech-mentor",
			Turns: []types.ScriptTurn{
				{User: "My app crashes and I can't figure out why.", Assistant: "First, reproduce it reliably. A bug you can reproduce on demand is already half fixed."},
				{User: "It only happens sometimes, that's the problem.", Assistant: "Then capture more context: log the inputs right before the crash point and look for what the failing runs share."},
				{User: "That found it! It's a nil value from one API.", Assistant: "Classic. Now write a test that feeds in that nil so this bug can never sneak back."},
				{User: "Test written and passing. Thanks, Priya!", Assistant: "Well done. You didn't just fix a bug, you closed the door behind it."},
			},
		},
		{
			Title:     "How to actually learn programming",
			PersonaID: "tech-mentor",
			Turns: []types.ScriptTurn{
				{User: "I keep starting courses and abandoning them.", Assistant: "Pick one small project you actually want to exist, and learn exactly what that project demands. Courses come second."},
				{User: "Like what kind of project?", Assistant: "Something you'd use weekly: a habit tracker, a recipe box, a tiny game. Small enough to finish in a month."},
				{User: "And when I get stuck?", Assistant: "Getting stuck is the curriculum. Each unsticking teaches you more than a chapter of theory."},
				{User: "Okay, habit tracker it is.", Assistant: "Great choice. Ship something ugly in week one; polish is a later problem."},
			},
		},
		{
			Title:     "Preparing for technical interviews",
			PersonaID: "tech-mentor",
			Turns: []types.ScriptTurn{
				{User: "I have a coding interview in three weeks.", Assistant: "Interviews reward communicating your thinking. Practice narrating your approach out loud, not just solving silently."},
				{User: "Should I grind hundreds of problems?", Assistant: "Depth beats volume. Thirty problems across the core patterns, each understood well enough to teach, will serve you better."},
				{User: "What about system design?", Assistant: "Start with the boring design that works, and add complexity only when a measurement tells you to. Say exactly that in the interview."},
				{User: "Feeling more confident already.", Assistant: "You should. Three weeks of deliberate practice is plenty. Go get it."},
			},
		},
	},
	"finance": {
		{
			Title:     "Building a first budget",
			PersonaID: "finance-advisor",
			Turns: []types.ScriptTurn{
				{User: "My salary disappears every month and I don't know where.", Assistant: "Pay yourself first: automate a transfer on payday, even a small one, before you budget the rest."},
				{User: "How much should that transfer be?", Assistant: "Start with ten percent. If that pinches, drop to five and raise it with every pay rise."},
				{User: "And then track every expense?", Assistant: "Just the top three categories for one month. Perfect tracking burns people out; rough tracking changes behavior."},
				{User: "Automating the transfer right now.", Assistant: "That single automation will outperform a year of good intentions. Nicely done."},
			},
		},
		{
			Title:     "Getting started with investing",
			PersonaID: "finance-advisor",
			Turns: []types.ScriptTurn{
				{User: "Everyone's talking about stocks. Where do I start?", Assistant: "For most people, boring wins: broad index funds, regular contributions, and a horizon measured in decades."},
				{User: "Shouldn't I pick winning stocks instead?", Assistant: "Professionals with full-time research teams mostly fail to beat the index. The boring route is the winning route."},
				{User: "How much do I need to begin?", Assistant: "Whatever you can contribute monthly without touching it for years. The habit matters far more than the amount."},
				{User: "Index funds it is. Thanks, Daniel!", Assistant: "Future you just sent a thank-you note. Stay the course."},
			},
		},
		{
			Title:     "Tackling credit card debt",
			PersonaID: "finance-advisor",
			Turns: []types.ScriptTurn{
				{User: "I have three credit cards with balances and feel buried.", Assistant: "List every balance by interest rate. Highest rate gets the extra payment; the rest get minimums. Simple and effective."},
				{User: "Should I stop saving while I pay them off?", Assistant: "Keep a small emergency cushion first. Without it, the next surprise lands right back on the cards."},
				{User: "How long will this take?", Assistant: "With the rate-ordered method and a fixed monthly amount, most three-card situations clear in one to two years."},
				{User: "That feels doable. Thank you.", Assistant: "It is doable. Same payment every month, highest rate first, and the math does the rest."},
			},
		},
	},
}
