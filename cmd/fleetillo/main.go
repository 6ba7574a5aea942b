package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	providerFlag string
	modelFlag    string
	profileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "fleetillo",
	Short: "Fleetillo - conversational support assistant for route management",
	Long: `Fleetillo answers natural-language questions about bookings, routes,
customers, and vehicles by querying the route-management database through a
fixed set of read-only tools, and never answers data questions from guesswork.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Inference provider (overrides config)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model to use (overrides config)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Assistant profile to use (e.g. default, terse)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
