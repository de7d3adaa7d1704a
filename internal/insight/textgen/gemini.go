package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"google.golang.org/api/option"
)

// Gemini generates completions with a Google Gemini model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ domain.TextGenerator = (*Gemini)(nil)

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: client.GenerativeModel(modelName)}, nil
}

// Generate returns the text parts of the first candidate joined together.
// A response without candidates yields an empty completion.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return candidateText(resp), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
