// Package agent implements the tool registry and the multi-turn
// conversation loop driven by an external reasoning engine.
package agent

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Engine is the reasoning-engine boundary. Given the working message
// list and the tool menu it returns the engine's next message: either
// one carrying tool calls or a final answer. The loop never depends
// on the engine's internal reasoning format.
type Engine interface {
	Step(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// OpenAIEngine implements Engine using the OpenAI chat completions API.
type OpenAIEngine struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIEngine creates a new OpenAI reasoning engine.
func NewOpenAIEngine(apiKey, model string, temperature float32) *OpenAIEngine {
	return &OpenAIEngine{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

// Step requests the next engine action for the given messages.
func (e *OpenAIEngine) Step(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages:    messages,
		Tools:       tools,
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message, nil
}
