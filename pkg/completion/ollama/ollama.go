package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"persona-chat-be/pkg/completion"
)

const (
	chatEndpoint = "/api/chat"

	suggestionsPrompt = `Based on the conversation so far, suggest up to three short follow-up
prompts the user might send next. One per line, no numbering, no commentary.`

	maxSuggestions = 3
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements Provider
var _ completion.Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Stream(ctx context.Context, history []completion.Message, onUpdate completion.UpdateFunc, opts ...completion.Option) error {
	payload, err := o.buildPayload(history, true, opts)
	if err != nil {
		return err
	}

	resp, err := o.send(ctx, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// Ollama streams newline-delimited JSON chunks. Each chunk carries a
	// content delta; the last one has done=true.
	var builder strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return fmt.Errorf("unmarshal stream chunk: %w", err)
		}

		if chunk.Message.Content != "" {
			builder.WriteString(chunk.Message.Content)
			onUpdate(builder.String(), nil)
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}

	final := builder.String()
	suggestions := o.fetchSuggestions(ctx, history, final, opts)

	onUpdate(final, suggestions)
	return nil
}

func (o *OllamaProvider) Chat(ctx context.Context, history []completion.Message, opts ...completion.Option) (string, error) {
	payload, err := o.buildPayload(history, false, opts)
	if err != nil {
		return "", err
	}

	resp, err := o.send(ctx, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &ollamaResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return ollamaResp.Message.Content, nil
}

// fetchSuggestions asks the model for follow-up prompts once the main
// response has finished. Failures degrade to an empty list rather than
// breaking the stream: suggestions are decoration, the non-nil slice is
// what signals completion.
func (o *OllamaProvider) fetchSuggestions(ctx context.Context, history []completion.Message, response string, opts []completion.Option) []string {
	followUp := make([]completion.Message, 0, len(history)+2)
	followUp = append(followUp, history...)
	followUp = append(followUp,
		completion.Message{Role: "assistant", Content: response},
		completion.Message{Role: "user", Content: suggestionsPrompt},
	)

	raw, err := o.Chat(ctx, followUp, opts...)
	if err != nil {
		return []string{}
	}

	suggestions := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• "))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

func (o *OllamaProvider) buildPayload(history []completion.Message, stream bool, opts []completion.Option) ([]byte, error) {
	options := &completion.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	ollamaMessages := make([]ollamaMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		ollamaMessages[i] = ollamaMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := ollamaChatRequest{
		Model:    model,
		Messages: ollamaMessages,
		Stream:   stream,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
		},
	}

	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return payloadBytes, nil
}

func (o *OllamaProvider) send(ctx context.Context, payload []byte) (*http.Response, error) {
	url := o.BaseURL + chatEndpoint
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	return resp, nil
}
