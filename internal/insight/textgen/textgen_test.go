package textgen

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestTemplateGenerate(t *testing.T) {
	g := NewTemplate()
	ctx := context.Background()

	out, err := g.Generate(ctx, "Product ID: 42\nAverage daily demand: 20\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "strong at about 20")

	out, err = g.Generate(ctx, "Product ID: 42\nAverage daily demand: 3\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "Action: Reduce")

	out, err = g.Generate(ctx, "Product ID: 42\nAverage daily demand: 12\n")
	assert.NoError(t, err)
	assert.Contains(t, out, "steady")

	out, err = g.Generate(ctx, "unrelated")
	assert.NoError(t, err)
	assert.Contains(t, out, "could not be determined")
}

func TestTemplateHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTemplate().Generate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidateText(t *testing.T) {
	assert.Equal(t, "", candidateText(nil))
	assert.Equal(t, "", candidateText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Insight: up. "), genai.Blob{MIMEType: "image/png"}, genai.Text("Action: buy.")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	assert.Equal(t, "Insight: up. Action: buy.", candidateText(resp))
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), " ", "gemini-1.5-flash")
	assert.Error(t, err)
}
