package agent

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// defaultPlannerTemplate is used when no planner.md override exists in
// the prompts directory.
const defaultPlannerTemplate = `You are a planner. Read the task below and output a concise todo list, one step per line. Start each line with a short imperative verb. Do not number the lines.

Task:
{{.Task}}

TODO:`

// PromptManager resolves the planner prompt, preferring a planner.md
// file in the prompts directory over the built-in default.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

// GetPlannerPrompt renders the planner prompt template with the task.
func (pm *PromptManager) GetPlannerPrompt(task string) (string, error) {
	text := defaultPlannerTemplate

	if pm.Directory != "" {
		path := filepath.Join(pm.Directory, "planner.md")
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			text = string(data)
		case !os.IsNotExist(err):
			log.Printf("Warning: failed to read prompt file %s, using built-in prompt: %v", path, err)
		}
	}

	tmpl, err := template.New("planner").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse planner prompt template: %v", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, struct{ Task string }{Task: task}); err != nil {
		return "", fmt.Errorf("failed to render planner prompt: %v", err)
	}
	return sb.String(), nil
}
