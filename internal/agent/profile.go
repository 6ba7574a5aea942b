package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile customizes the assistant for a deployment: prompt wording, model
// selection, generation limits.
type Profile struct {
	Name         string  `yaml:"name"`
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	SystemPrompt string  `yaml:"system_prompt"`
	MaxTokens    int64   `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
}

// LoadProfile reads an assistant profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	return &p, nil
}
