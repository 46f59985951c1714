package domain

import "time"

// WakeEvent signals that the user wants to start a turn. It carries no
// payload beyond its origin; the pipeline consumes each event exactly once.
type WakeEvent struct {
	Source string    `json:"source"` // "hotkey", "api", "ws"
	At     time.Time `json:"at"`
}

// Turn is one completed conversation exchange. Immutable once recorded.
type Turn struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
}

// Profile holds the fixed personal-data schema gathered during onboarding.
// It is owned by the profile store; every mutation is persisted immediately.
type Profile struct {
	Name             string            `json:"name"`
	Age              string            `json:"age"`
	Occupation       string            `json:"occupation"`
	Location         string            `json:"location"`
	Interests        []string          `json:"interests"`
	Preferences      map[string]string `json:"preferences"`
	InteractionCount int               `json:"interaction_count"`
	LastUpdated      time.Time         `json:"last_updated"`
}

// OnboardingQuestion pairs a profile field with the prompt spoken to fill it.
type OnboardingQuestion struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
}

// ActionKind tags the outcome of an action-executor dispatch.
type ActionKind string

const (
	// ActionExecuted means the text matched an allow-listed action and the
	// reply should be spoken. No confirmation is outstanding.
	ActionExecuted ActionKind = "executed"

	// ActionNeedsConfirmation means the executor proposed something (a new
	// command to remember) and is waiting for an affirmative or negative
	// reply before committing it.
	ActionNeedsConfirmation ActionKind = "needs_confirmation"

	// ActionNoMatch means the text matched nothing; the caller should fall
	// through to classification or open generation.
	ActionNoMatch ActionKind = "no_match"
)

// ActionResult is the tagged outcome of ActionExecutor.Handle. The pending
// proposal, when present, is session-scoped state inside the executor; the
// caller only sees the kind and the human-facing reply.
type ActionResult struct {
	Kind  ActionKind `json:"kind"`
	Reply string     `json:"reply,omitempty"`

	// Intent and Command describe the proposal awaiting confirmation.
	// Set only when Kind == ActionNeedsConfirmation.
	Intent  string `json:"intent,omitempty"`
	Command string `json:"command,omitempty"`
}

// Executed reports whether the result carries a spoken reply for a
// completed action.
func (r ActionResult) Executed() bool { return r.Kind == ActionExecuted }

// Pending reports whether the executor is waiting on a confirmation reply.
func (r ActionResult) Pending() bool { return r.Kind == ActionNeedsConfirmation }

// NoMatch is the zero-value result for text the executor does not handle.
var NoMatch = ActionResult{Kind: ActionNoMatch}
