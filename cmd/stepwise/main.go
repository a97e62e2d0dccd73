package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/arjun/stepwise/internal/agent"
	"github.com/arjun/stepwise/internal/observability"
	"github.com/arjun/stepwise/internal/tasksource"
	"github.com/arjun/stepwise/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the status line's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg := config.LoadConfig("config.yaml")

	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	var err error
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger()
	prompts := agent.NewPromptManager(cfg.Planner.PromptsDir)
	delegate := agent.NewLLMDelegate(llm)

	// Task source: a fixed file when configured, otherwise the first
	// human message of the conversation (seeded from argv below).
	var source tasksource.Source = tasksource.HistorySource{}
	if cfg.Planner.TaskFile != "" {
		source = tasksource.FileSource{Path: cfg.Planner.TaskFile}
	}

	planner := agent.NewPlanner(llm, delegate, source, prompts, logger)
	planner.MaxPlanSteps = cfg.Planner.MaxSteps
	planner.CompletionToken = cfg.Planner.CompletionToken

	state := agent.State{}
	if task := strings.TrimSpace(strings.Join(os.Args[1:], " ")); task != "" {
		state.History = append(state.History, llms.MessageContent{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(task)},
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Live status line (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	for ctx.Err() == nil {
		action, err := planner.Step(ctx, state)
		if err != nil {
			log.Printf("\033[91m[ FAIL ] PLANNER ERROR: %v\033[0m", err)
			break
		}

		msg, ok := action.(agent.MessageAction)
		if !ok {
			log.Printf("[%s] (non-message action)", action.ActionType())
			continue
		}

		log.Printf("[%s] %s", msg.Source, msg.Content)
		state.History = append(state.History, llms.MessageContent{
			Role:  schema.ChatMessageTypeAI,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})

		if planner.Done() {
			break
		}
	}

	observability.CleanupTerminal()
	time.Sleep(200 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] RUN FINISHED. GOODBYE.\033[0m")
}
