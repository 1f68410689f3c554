package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com"
	defaultGeminiModel = "gemini-pro"
)

// GeminiProvider calls the Gemini generateContent API.
// Every call takes the next key from its KeyRing.
type GeminiProvider struct {
	client    *http.Client
	keys      *KeyRing
	apiURL    string
	model     string
	maxTokens int
}

// NewGeminiProvider creates a Gemini provider. cfg.APIKey may hold several
// comma separated keys.
func NewGeminiProvider(cfg Config) *GeminiProvider {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &GeminiProvider{
		client:    newHTTPClient(cfg.Timeout),
		keys:      NewKeyRing(cfg.APIKey),
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns "gemini".
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt as a single user turn.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	key := p.keys.Next()
	if key == "" {
		return "", errMissingKey(ProviderGemini)
	}

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: p.maxTokens,
		},
	})
	if err != nil {
		return "", malformed(ProviderGemini, "marshal request", err)
	}

	endpoint := p.apiURL + "/v1beta/models/" + url.PathEscape(p.model) + ":generateContent"
	body, err := postJSON(ctx, p.client, ProviderGemini, endpoint, payload, map[string]string{
		"X-Goog-Api-Key": key,
	})
	if err != nil {
		return "", err
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", malformed(ProviderGemini, "decode response", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", malformed(ProviderGemini, "no candidates", nil)
	}
	var sb strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", malformed(ProviderGemini, "empty completion", nil)
	}
	return sb.String(), nil
}
