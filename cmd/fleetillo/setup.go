package main

import (
	"fmt"
	"path/filepath"

	"github.com/imagicrafter/kwenv-fleetillo/internal/agent"
	"github.com/imagicrafter/kwenv-fleetillo/internal/config"
	"github.com/imagicrafter/kwenv-fleetillo/internal/gateway"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
	"github.com/imagicrafter/kwenv-fleetillo/internal/tools"
)

// buildAssistant wires config, profile, model client, gateway, and registry
// into a ready assistant. The returned cleanup closes the gateway pool.
func buildAssistant(cfg *config.Config) (*agent.Agent, func(), error) {
	var profile *agent.Profile
	if profileFlag != "" {
		profilePath := filepath.Join(cfg.Agent.ProfilesDir, profileFlag+".yaml")
		p, err := agent.LoadProfile(profilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading profile: %w", err)
		}
		profile = p
	}

	providerName := providerFlag
	if providerName == "" && profile != nil {
		providerName = profile.Provider
	}
	provider, err := cfg.Provider(providerName)
	if err != nil {
		return nil, nil, err
	}

	model := modelFlag
	if model == "" && profile != nil {
		model = profile.Model
	}
	if model == "" {
		model = provider.Models["default"]
	}

	maxTokens := cfg.Agent.MaxTokens
	temperature := cfg.Agent.Temperature
	if profile != nil {
		if profile.MaxTokens > 0 {
			maxTokens = profile.MaxTokens
		}
		if profile.Temperature > 0 {
			temperature = profile.Temperature
		}
	}

	gw, err := openGateway(cfg.Gateway)
	if err != nil {
		return nil, nil, err
	}

	client := llm.NewClient(provider.BaseURL, provider.APIKey, model, maxTokens, temperature)
	a := agent.New(client, tools.NewRegistry(gw))
	if profile != nil {
		a.SetSystemPrompt(profile.SystemPrompt)
	}

	return a, func() { gw.Close() }, nil
}

func openGateway(cfg config.GatewayConfig) (*gateway.SQLGateway, error) {
	switch cfg.Driver {
	case "postgres":
		return gateway.OpenPostgres(cfg.DSN, cfg.Schema, cfg.QueriesPerMinute)
	case "sqlite", "":
		return gateway.OpenSQLite(cfg.DSN, cfg.QueriesPerMinute)
	default:
		return nil, fmt.Errorf("unknown gateway driver: %s", cfg.Driver)
	}
}
