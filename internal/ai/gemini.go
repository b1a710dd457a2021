// Package ai talks to Gemini to turn free text and receipt photos into ledger
// proposals, and to write short financial advice.
package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// contentGenerator is the part of the genai client the parser needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements services.ProposalParser and services.AdviceGenerator.
type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(gen contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiClient{models: gen, model: model}
}

// ParseText extracts a proposal from a sentence such as "lunch 25000 kip cash".
func (c *GeminiClient) ParseText(ctx context.Context, text string, snapshot models.AppData, today string) (models.Proposal, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: textPrompt(text, snapshot, today)}},
		},
	}
	return c.propose(ctx, "parse_text", contents)
}

// ParseReceipt extracts a transaction proposal from a receipt or transfer slip image.
func (c *GeminiClient) ParseReceipt(ctx context.Context, image []byte, mimeType string, snapshot models.AppData, today string) (models.Proposal, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
				{Text: receiptPrompt(snapshot, today)},
			},
		},
	}
	return c.propose(ctx, "parse_receipt", contents)
}

// Advice returns a short Markdown summary with saving tips in the given language.
func (c *GeminiClient) Advice(ctx context.Context, snapshot models.AppData, language string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: advicePrompt(snapshot, language)}},
		},
	}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("advice: generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("advice: empty response from model")
	}
	return text, nil
}

func (c *GeminiClient) propose(ctx context.Context, operation string, contents []*genai.Content) (models.Proposal, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: generate content: %w", operation, err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("%s: empty response from model", operation)
	}

	p, err := models.DecodeProposal([]byte(cleanModelJSON(raw)))
	if err != nil {
		logger.Get().Debugw("Unparseable model output", "operation", operation, "raw", raw)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return p, nil
}
