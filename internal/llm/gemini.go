package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// GeminiProvider implements the Provider interface for Google Gemini models.
type GeminiProvider struct {
	client *genai.Client
	config model.LLMConfig
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, config model.LLMConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the provider is properly configured.
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	return p.client != nil
}

// ExtractFields submits the block list and parses the structured response.
// JSON output is forced via the response MIME type and the temperature is
// pinned to zero for determinism.
func (p *GeminiProvider) ExtractFields(ctx context.Context, req ExtractRequest) (*model.ExtractedFields, error) {
	content, err := BuildUserContent(req.Blocks)
	if err != nil {
		return nil, err
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(ExtractionPrompt+"\n\n"+content, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctxWithTimeout, modelName, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, &model.BackendError{Op: "gemini generate content", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &model.BackendError{Op: "gemini generate content", Err: fmt.Errorf("empty response")}
	}
	return ParseExtraction(text)
}
