package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/arjun/stepwise/internal/observability"
	"github.com/arjun/stepwise/internal/tasksource"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	// DefaultCompletionToken is the sentinel the delegate must include
	// in a reply to mark the current step as finished.
	DefaultCompletionToken = "STEP COMPLETED"

	// DefaultMaxPlanSteps caps how many steps a generated plan may hold.
	DefaultMaxPlanSteps = 10

	// AllStepsCompletedMessage is returned once the step list is empty.
	AllStepsCompletedMessage = "All steps completed."
)

// Fallback plans. planFallback covers a failed or unusable completion;
// taskFallback covers a missing or unreadable task description.
var (
	planFallback = []string{"Understand the task", "Plan next steps", "Execute", "Verify"}
	taskFallback = []string{"Analyze the task", "Ask for clarification"}
)

// Planner wraps a delegate agent with a one-shot step breakdown. On the
// first Step call it obtains the task description, asks the model for a
// todo list and stores it; every later call hands the current step to
// the delegate and pops the list when the delegate's reply carries the
// completion token. The delegate never sees the list itself, only the
// instruction text derived from it.
type Planner struct {
	Model    llms.Model
	Delegate Agent
	Source   tasksource.Source
	Prompts  *PromptManager
	Logger   *observability.Logger

	CompletionToken string
	MaxPlanSteps    int

	todo    []string
	planned bool
	runID   string
}

func NewPlanner(model llms.Model, delegate Agent, source tasksource.Source, prompts *PromptManager, logger *observability.Logger) *Planner {
	return &Planner{
		Model:           model,
		Delegate:        delegate,
		Source:          source,
		Prompts:         prompts,
		Logger:          logger,
		CompletionToken: DefaultCompletionToken,
		MaxPlanSteps:    DefaultMaxPlanSteps,
	}
}

// GeneratePlan asks the model for a step breakdown of the task. It
// never returns an error: a failed call or unusable response degrades
// to a fixed generic plan so the run can continue.
func (p *Planner) GeneratePlan(ctx context.Context, task string) []string {
	prompt, err := p.Prompts.GetPlannerPrompt(task)
	if err != nil {
		log.Printf("Warning: failed to build planner prompt, using fallback plan: %v", err)
		return append([]string(nil), planFallback...)
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := p.Model.GenerateContent(ctx, messages)
	if err != nil {
		log.Printf("Warning: plan generation failed, using fallback plan: %v", err)
		return append([]string(nil), planFallback...)
	}
	if len(resp.Choices) == 0 {
		log.Printf("Warning: plan generation returned no choices, using fallback plan")
		return append([]string(nil), planFallback...)
	}

	p.Logger.LogLLM(p.runID, prompt, resp.Choices[0].Content)

	steps := parsePlanLines(resp.Choices[0].Content, p.maxPlanSteps())
	if len(steps) == 0 {
		log.Printf("Warning: plan generation produced no usable steps, using fallback plan")
		return append([]string(nil), planFallback...)
	}
	return steps
}

// Step drives one turn. The incoming state is read-only; the delegate
// receives a derived copy with the step instruction prepended.
func (p *Planner) Step(ctx context.Context, state State) (Action, error) {
	if !p.planned {
		p.plan(ctx, state)
	}

	if len(p.todo) == 0 {
		observability.SetStatus(observability.RoleIdle, "")
		return MessageAction{Content: AllStepsCompletedMessage, Source: SourcePlanner}, nil
	}

	current := p.todo[0]
	observability.SetStatus(observability.RoleDelegating, current)

	instruction := llms.MessageContent{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(p.instructionText(current))},
	}

	action, err := p.Delegate.Step(ctx, state.WithPrepended(instruction))
	if err != nil {
		log.Printf("Delegate step failed: %v", err)
		return MessageAction{
			Content: "Sorry, an error occurred while working on the current step. Continuing with the plan.",
			Source:  SourcePlanner,
		}, nil
	}

	msg, ok := action.(MessageAction)
	if !ok || !strings.Contains(msg.Content, p.completionToken()) {
		return action, nil
	}

	// Sole mutation of the step list.
	done := p.todo[0]
	p.todo = p.todo[1:]
	p.Logger.LogStep(p.runID, done, len(p.todo))
	log.Printf("[Planner] step done, %d remaining: %s", len(p.todo), done)

	if len(p.todo) == 0 {
		observability.SetStatus(observability.RoleIdle, "")
		return MessageAction{Content: AllStepsCompletedMessage, Source: SourcePlanner}, nil
	}
	return MessageAction{
		Content: fmt.Sprintf("Completed step: %s\nNext step: %s", done, p.todo[0]),
		Source:  SourcePlanner,
	}, nil
}

// Reset clears the plan and forwards the reset to the delegate.
func (p *Planner) Reset() {
	p.todo = nil
	p.planned = false
	p.runID = ""
	observability.SetStatus(observability.RoleIdle, "")
	if p.Delegate != nil {
		p.Delegate.Reset()
	}
}

// Done reports whether a plan was generated and fully worked through.
func (p *Planner) Done() bool {
	return p.planned && len(p.todo) == 0
}

// Remaining reports how many steps are left in the current plan.
func (p *Planner) Remaining() int {
	return len(p.todo)
}

func (p *Planner) plan(ctx context.Context, state State) {
	p.runID = uuid.NewString()
	observability.SetStatus(observability.RolePlanning, "")

	task, err := p.Source.TaskDescription(state.History)
	if err != nil {
		log.Printf("Warning: no usable task description, using minimal plan: %v", err)
		p.todo = append([]string(nil), taskFallback...)
	} else {
		p.todo = p.GeneratePlan(ctx, task)
	}
	p.planned = true

	p.Logger.LogPlan(p.runID, p.todo)
	log.Printf("[Planner] generated plan with %d step(s)", len(p.todo))
}

func (p *Planner) instructionText(current string) string {
	return fmt.Sprintf(
		"[Planner] Current step (%d more after this one): %s\nWork on this step only. When it is done, reply with a short result containing the exact text %q.",
		len(p.todo)-1, current, p.completionToken(),
	)
}

func (p *Planner) completionToken() string {
	if p.CompletionToken == "" {
		return DefaultCompletionToken
	}
	return p.CompletionToken
}

func (p *Planner) maxPlanSteps() int {
	if p.MaxPlanSteps <= 0 {
		return DefaultMaxPlanSteps
	}
	return p.MaxPlanSteps
}

// parsePlanLines turns raw model output into plan steps: one per line,
// bullets and numbering stripped, blank lines and the TODO header
// dropped, capped at max entries.
func parsePlanLines(raw string, max int) []string {
	var steps []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•")
		line = trimNumbering(line)
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "todo:") {
			continue
		}
		steps = append(steps, line)
		if len(steps) == max {
			break
		}
	}
	return steps
}

// trimNumbering strips a leading "1." or "1)" style prefix.
func trimNumbering(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[i+1:]
	}
	return line
}
