// Package skill provides local capabilities the agent can invoke
// deterministically, without going through the model.
//
// Each skill declares whether it can handle a message and produces a
// structured result. The registry dispatches a message to every matching
// skill and isolates failures: one skill blowing up never affects another
// nor the conversation pipeline.
package skill

import "context"

// Skill is a local capability matched against incoming messages.
type Skill interface {
	// Name is the stable identifier reported in responses.
	Name() string

	// Description is a human-readable summary for capability listings.
	Description() string

	// CanHandle reports whether the skill wants to run for the message.
	// It must be cheap: it runs on every incoming message.
	CanHandle(message string) bool

	// Execute runs the skill. Domain-level problems (unparseable input,
	// unknown location) are reported inside the returned data, not as an
	// error; an error means the skill itself failed.
	Execute(ctx context.Context, message string) (map[string]any, error)
}

// Result is the outcome of one skill execution during dispatch.
type Result struct {
	Skill   string         `json:"skill"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Info describes a registered skill for capability listings.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
