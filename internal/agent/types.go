package agent

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Source tags for MessageAction producers.
const (
	SourceUser    = "user"
	SourceAgent   = "agent"
	SourcePlanner = "planner"
)

// Action is anything an agent can emit in response to a single step.
// Callers treat actions opaquely except for the textual message shape.
type Action interface {
	ActionType() string
}

// MessageAction is a plain textual reply from an agent or the planner.
type MessageAction struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

func (MessageAction) ActionType() string { return "message" }

// State carries the conversation handed to an agent for one turn.
type State struct {
	History []llms.MessageContent
}

// WithPrepended derives a new state with msg placed before the existing
// history. The receiver's history slice is never modified.
func (s State) WithPrepended(msg llms.MessageContent) State {
	augmented := make([]llms.MessageContent, 0, len(s.History)+1)
	augmented = append(augmented, msg)
	augmented = append(augmented, s.History...)
	return State{History: augmented}
}

// Agent is the step contract shared by the planner and the delegate it
// drives. The planner satisfies it too, so it can be substituted
// anywhere an agent is expected.
type Agent interface {
	Step(ctx context.Context, state State) (Action, error)
	Reset()
}
