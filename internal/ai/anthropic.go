package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const (
	defaultAnthropicURL    = "https://api.anthropic.com"
	defaultAnthropicModel  = "claude-3-5-haiku-latest"
	anthropicVersionHeader = "2023-06-01"
)

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	client    *http.Client
	apiKey    string
	apiURL    string
	model     string
	maxTokens int
}

// NewAnthropicProvider creates an Anthropic provider.
func NewAnthropicProvider(cfg Config) *AnthropicProvider {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAnthropicURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &AnthropicProvider{
		client:    newHTTPClient(cfg.Timeout),
		apiKey:    cfg.APIKey,
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns "anthropic".
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends prompt as a single user message and joins the text blocks of the answer.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", errMissingKey(ProviderAnthropic)
	}

	payload, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", malformed(ProviderAnthropic, "marshal request", err)
	}

	body, err := postJSON(ctx, p.client, ProviderAnthropic, p.apiURL+"/v1/messages", payload, map[string]string{
		"X-API-Key":         p.apiKey,
		"Anthropic-Version": anthropicVersionHeader,
	})
	if err != nil {
		return "", err
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", malformed(ProviderAnthropic, "decode response", err)
	}
	var sb strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", malformed(ProviderAnthropic, "empty completion", nil)
	}
	return sb.String(), nil
}
