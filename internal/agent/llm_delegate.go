package agent

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
)

// LLMDelegate answers each step with a single plain completion over the
// supplied history. It stands in for a full execution agent so the demo
// binary can run end to end; deployments substitute the host platform's
// agent here.
type LLMDelegate struct {
	Model llms.Model
}

func NewLLMDelegate(model llms.Model) *LLMDelegate {
	return &LLMDelegate{Model: model}
}

func (d *LLMDelegate) Step(ctx context.Context, state State) (Action, error) {
	resp, err := d.Model.GenerateContent(ctx, state.History)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}
	return MessageAction{Content: resp.Choices[0].Content, Source: SourceAgent}, nil
}

// Reset is a no-op; the delegate keeps no state between steps.
func (d *LLMDelegate) Reset() {}
