package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an error parsing the OpenAI response.
	ErrOpenAIResponse = errors.New("failed to parse OpenAI response")
)

const systemPrompt = `You are a non-medical wellbeing assistant for a wearable study.

You receive aggregated affective-state estimates (arousal, stress, valence on a 0-1 scale) inferred from wearable sensor data for a single participant, together with their recent self-reports. You must base your conclusions only on the provided data.

Your goals:
- Describe the participant's recent affective trends in clear, neutral language.
- Highlight patterns in stress, arousal, and valence across the recent window and longer history.
- Compare inferred estimates against self-reports when both are present.
- Note when the personalised baseline is not yet calibrated and estimates are less reliable.
- Give practical, behavioral suggestions for managing stress and mood.

Rules:
- Do NOT provide medical advice or diagnoses.
- Do NOT mention diseases, disorders, doctors, or treatment.
- Treat all estimates as probabilistic tendencies, never as facts about emotions.
- If data is limited or mixed, say that explicitly.
- Be concise and concrete.

You must respond as strict JSON with exactly this shape:

{
  "summary": "2-3 sentences summarizing recent affective trends, comparing the recent window to the longer history.",
  "observations": [
    "3-6 bullet points about patterns in stress, arousal, and valence.",
    "At least one item comparing the recent window to the longer history.",
    "If self-reports are present, one item on how they align with the inferred estimates."
  ],
  "guidance": [
    "3-5 concrete, non-medical suggestions tailored to these numbers.",
    "Include at least one suggestion about stress recovery if high-stress events occurred.",
    "Include at least one suggestion about sleep or routine regularity if valence trends low."
  ]
}

No extra fields. No comments. No backticks.`

const userPromptTemplate = `Here is JSON describing this participant's affective data.

- "latest" is the most recent inferred state, if any.
- "recent" and "history" each aggregate inferred states over a window:
  mean arousal/stress/valence, the stress peak, and the count of
  high-stress events (stress above 0.65).
- "self_reports" summarizes the participant's own momentary ratings
  (arousal and valence on 1-9, stress on 1-5) and their most frequent
  emotion tags.
- "baseline_calibrated" is false while fewer than 7 days of data exist;
  estimates are then less reliable.

Use:
- "history" to understand the long-term baseline (about 30 days),
- "recent" to see short-term changes (about 7 days),
- "latest" to judge how the current state compares to both.

JSON:

%s

Based on this data, respond in the required JSON format.`

// InsightsLLM is the interface for generating affect insights using an LLM.
type InsightsLLM interface {
	// GenerateInsights takes a context object and returns LLM-generated insights.
	GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error)
}

// OpenAIClient implements InsightsLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for generating insights.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// GenerateInsights calls OpenAI to generate affect insights.
func (c *OpenAIClient) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error) {
	if c == nil {
		return nil, ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(insightsCtx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := resp.Choices[0].Message.Content

	var output domain.LLMInsightsOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenAIResponse, err)
	}

	return &output, nil
}
