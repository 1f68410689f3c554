package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	client    *http.Client
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultOpenAIURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIProvider{
		client:    newHTTPClient(cfg.Timeout),
		apiKey:    cfg.APIKey,
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as a single user message.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", errMissingKey(ProviderOpenAI)
	}

	payload, err := json.Marshal(openAIRequest{
		Model:       p.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens:   p.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", malformed(ProviderOpenAI, "marshal request", err)
	}

	body, err := postJSON(ctx, p.client, ProviderOpenAI, p.apiURL+"/chat/completions", payload, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return "", err
	}

	var decoded openAIResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", malformed(ProviderOpenAI, "decode response", err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", malformed(ProviderOpenAI, "empty completion", nil)
	}
	return decoded.Choices[0].Message.Content, nil
}
