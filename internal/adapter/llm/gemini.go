package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

var ErrEmptyReply = errors.New("model returned an empty reply")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient talks to the Gemini API directly (not Vertex).
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{models: client.Models, model: model}, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, format ports.ResponseFormat) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), generateConfig(format))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyReply
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func generateConfig(format ports.ResponseFormat) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)}

	schema := responseSchema(format)
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}
	return cfg
}

// responseSchema returns nil for free-text replies.
func responseSchema(format ports.ResponseFormat) *genai.Schema {
	switch format {
	case ports.FormatTaskDraft:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString},
				"description": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"priority":    {Type: genai.TypeString, Enum: priorityNames()},
				"category":    {Type: genai.TypeString, Enum: categoryNames()},
				"due_date":    {Type: genai.TypeString, Nullable: genai.Ptr(true), Description: "ISO 8601 datetime"},
				"confidence":  {Type: genai.TypeNumber},
			},
			Required: []string{"title", "priority", "category", "confidence"},
		}
	case ports.FormatTaskOrder:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"order":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}},
				"reasoning": {Type: genai.TypeString},
			},
			Required: []string{"order", "reasoning"},
		}
	case ports.FormatInsights:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {Type: genai.TypeString},
				"tips":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"summary", "tips"},
		}
	default:
		return nil
	}
}

func priorityNames() []string {
	names := make([]string, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		names = append(names, string(p))
	}
	return names
}

func categoryNames() []string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return names
}

var _ ports.LanguageModel = (*GeminiClient)(nil)
