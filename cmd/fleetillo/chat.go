package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/imagicrafter/kwenv-fleetillo/internal/config"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the assistant",
	Long: `Start an interactive conversation with the support assistant.

Each turn is a stateless invocation; the conversation so far is kept here in
the client and replayed with every question.

Examples:
  fleetillo chat
  fleetillo chat --provider gradient --model llama3.3-70b-instruct`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	assistant, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("Fleetillo - Support Assistant\n")
	fmt.Printf("Type /help for commands, /quit to exit\n\n")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36myou>\033[0m ",
		HistoryFile:     "/tmp/fleetillo_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	// Ctrl+C cancels the active request, not the whole app.
	var reqCancel context.CancelFunc
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			if reqCancel != nil {
				reqCancel()
			}
		}
	}()

	var conversation []llm.Message

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := handleCommand(input, &conversation); done {
				continue
			}
		}

		conversation = append(conversation, llm.UserMessage(input))

		reqCtx, cancel := context.WithCancel(context.Background())
		reqCancel = cancel

		fmt.Printf("\n\033[32mfleetillo>\033[0m ")
		var reply strings.Builder
		err = assistant.Respond(reqCtx, conversation, func(fragment string) {
			fmt.Print(fragment)
			reply.WriteString(fragment)
		})
		wasInterrupted := reqCtx.Err() != nil
		cancel()
		reqCancel = nil

		if err != nil {
			// Drop the failed turn so the replayed history stays consistent.
			conversation = conversation[:len(conversation)-1]
			if wasInterrupted {
				fmt.Println("\n(interrupted)")
				continue
			}
			fmt.Printf("\n\033[31merror: %s\033[0m\n\n", err)
			continue
		}

		conversation = append(conversation, llm.AssistantMessage(reply.String()))
		fmt.Printf("\n\n")
	}
}

func handleCommand(input string, conversation *[]llm.Message) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit", "/q":
		fmt.Println("Goodbye!")
		os.Exit(0)
	case "/reset":
		*conversation = nil
		fmt.Println("Conversation reset.")
		fmt.Println()
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help     - Show this help")
		fmt.Println("  /reset    - Clear conversation history")
		fmt.Println("  /quit     - Exit")
		fmt.Println()
	default:
		fmt.Printf("Unknown command: %s (try /help)\n\n", input)
	}
	return true
}
