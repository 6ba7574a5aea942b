package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imagicrafter/kwenv-fleetillo/internal/config"
	"github.com/imagicrafter/kwenv-fleetillo/internal/server"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant HTTP server",
	Long: `Start the HTTP server exposing the assistant.

POST /api/assistant accepts {"messages":[...]} or {"input":{"messages":[...]}}
and streams the answer as plain text. A websocket variant lives at
/api/assistant/ws.

Examples:
  fleetillo serve
  fleetillo serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	assistant, cleanup, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	port := cfg.Server.Port
	if portFlag > 0 {
		port = portFlag
	}

	srv := server.New(cfg, assistant)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		srv.Shutdown(context.Background())
	}()

	return srv.Start(port)
}
