package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptManager_DefaultPrompt(t *testing.T) {
	pm := NewPromptManager("")
	prompt, err := pm.GetPlannerPrompt("Write and test a sort function.")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(prompt, "Write and test a sort function.") {
		t.Errorf("prompt missing task text: %q", prompt)
	}
	if !strings.Contains(prompt, "one step per line") {
		t.Errorf("prompt missing format instruction: %q", prompt)
	}
}

func TestPromptManager_FileOverride(t *testing.T) {
	tempDir := t.TempDir()
	override := "Plan this carefully:\n{{.Task}}\nSteps:"
	if err := os.WriteFile(filepath.Join(tempDir, "planner.md"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	pm := NewPromptManager(tempDir)
	prompt, err := pm.GetPlannerPrompt("my task")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(prompt, "Plan this carefully:") {
		t.Errorf("override not used: %q", prompt)
	}
	if !strings.Contains(prompt, "my task") {
		t.Errorf("task not substituted: %q", prompt)
	}
}

func TestPromptManager_MissingDirFallsBack(t *testing.T) {
	pm := NewPromptManager("/nonexistent/prompts")
	prompt, err := pm.GetPlannerPrompt("task")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "task") {
		t.Errorf("fallback prompt missing task: %q", prompt)
	}
}
