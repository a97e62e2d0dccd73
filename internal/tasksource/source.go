package tasksource

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Source yields the one task description a run plans against. It is
// consulted exactly once, at plan time. Two contracts exist in the
// wild: the first human message of the supplied conversation, or a flat
// text file at a well-known path; both are interchangeable here.
type Source interface {
	TaskDescription(history []llms.MessageContent) (string, error)
}

// HistorySource extracts the task from the first human message that
// carries non-empty text content.
type HistorySource struct{}

func (HistorySource) TaskDescription(history []llms.MessageContent) (string, error) {
	for _, msg := range history {
		if msg.Role != schema.ChatMessageTypeHuman {
			continue
		}
		var sb strings.Builder
		for _, part := range msg.Parts {
			if tp, ok := part.(llms.TextContent); ok {
				sb.WriteString(tp.Text)
			}
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, nil
		}
	}
	return "", errors.New("no human message with text content in history")
}

// FileSource reads the task from a flat text file.
type FileSource struct {
	Path string
}

func (f FileSource) TaskDescription(_ []llms.MessageContent) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read task file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("task file %s is empty", f.Path)
	}
	return text, nil
}
