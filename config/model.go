package config

import "os"

type ModelConfig struct {
	// OpenAIAPIKey enables the OpenAI chat and embedding collaborators.
	OpenAIAPIKey string `yaml:"openaiApiKey,omitempty"`

	// AnthropicAPIKey enables the Anthropic chat collaborator.
	AnthropicAPIKey string `yaml:"anthropicApiKey,omitempty"`

	// NomicAPIKey enables the Nomic Atlas embedding collaborator.
	NomicAPIKey string `yaml:"nomicApiKey,omitempty"`
}

func NewModelConfig() *ModelConfig {
	return &ModelConfig{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		NomicAPIKey:     os.Getenv("NOMIC_API_KEY"),
	}
}
