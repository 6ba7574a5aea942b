package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imagicrafter/kwenv-fleetillo/internal/config"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a single question",
	Long: `Run one stateless assistant turn and print the answer.

Examples:
  fleetillo ask "How many pending bookings?"
  fleetillo ask "Contact info for Perkins?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	assistant, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	question := strings.Join(args, " ")
	messages := []llm.Message{llm.UserMessage(question)}

	err = assistant.Respond(context.Background(), messages, func(fragment string) {
		fmt.Print(fragment)
	})
	if err != nil {
		return err
	}
	fmt.Println()
	return nil
}
