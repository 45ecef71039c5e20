package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestResponseText(t *testing.T) {
	textResp := func(parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
		}
	}

	t.Run("joins text parts", func(t *testing.T) {
		text, err := responseText(textResp(genai.Text("Resume Score: "), genai.Text("80/100\n")))
		require.NoError(t, err)
		assert.Equal(t, "Resume Score: 80/100", text)
	})

	t.Run("skips non-text parts", func(t *testing.T) {
		text, err := responseText(textResp(genai.Blob{MIMEType: "image/png"}, genai.Text("ok")))
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	})

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}},
		{"whitespace only", textResp(genai.Text("  \n"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyResponse))
		})
	}

	t.Run("blocked prompt", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{
			PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt blocked")
	})
}
