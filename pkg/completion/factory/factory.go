package factory

import (
	"fmt"

	"persona-chat-be/pkg/completion"
	"persona-chat-be/pkg/completion/ollama"
)

func NewProvider(providerType, modelName, baseURL string) (completion.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", providerType)
	}
}
