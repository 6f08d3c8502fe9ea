package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"market-analyst/internal/charts"
	apperrors "market-analyst/internal/errors"
	"market-analyst/internal/models"
)

// DefaultMaxToolRounds caps the number of tool-invocation rounds per
// turn. There is no other cancellation mechanism.
const DefaultMaxToolRounds = 5

// capAnswer is surfaced when the round cap is hit and the engine left
// no partial reasoning to show.
const capAnswer = "Agent stopped after reaching the tool call limit."

// imageMarkup matches inline markdown image syntax the engine may
// hallucinate; artifacts are delivered out-of-band, never inline.
var imageMarkup = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

// StepLog records one tool call of a turn, for transcript display.
type StepLog struct {
	Tool   string
	Input  string
	Output string
}

// TurnResult is the outcome of one user turn: the answer text and the
// chart artifacts produced while generating it, in creation order.
type TurnResult struct {
	Answer    string
	Artifacts []*charts.Artifact
	Steps     []StepLog
}

// Loop drives one user request to a final answer by alternating
// between the reasoning engine and tool execution.
type Loop struct {
	engine    Engine
	registry  *Registry
	log       zerolog.Logger
	maxRounds int
}

// NewLoop creates a turn loop. maxRounds values below 1 fall back to
// the default cap.
func NewLoop(engine Engine, registry *Registry, logger zerolog.Logger, maxRounds int) *Loop {
	if maxRounds < 1 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Loop{
		engine:    engine,
		registry:  registry,
		log:       logger.With().Str("component", "loop").Logger(),
		maxRounds: maxRounds,
	}
}

// RunTurn executes one turn: the user text plus prior history go to
// the reasoning engine, chosen tools run strictly in order, and the
// engine's final message becomes the answer. Artifacts accumulate in
// a sink scoped to this call and are returned with the result; they
// are never visible to any other turn.
func (l *Loop) RunTurn(ctx context.Context, userText string, history []models.Turn) (*TurnResult, error) {
	var sink []*charts.Artifact
	var steps []StepLog

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	tools := l.registry.Definitions()
	lastContent := ""
	dispatchRetried := false

	for round := 0; round < l.maxRounds; round++ {
		msg, err := l.engine.Step(ctx, messages, tools)
		if err != nil {
			return nil, err
		}

		// Final answer: no tool calls requested.
		if len(msg.ToolCalls) == 0 {
			return &TurnResult{
				Answer:    cleanAnswer(msg.Content),
				Artifacts: sink,
				Steps:     steps,
			}, nil
		}

		if msg.Content != "" {
			lastContent = msg.Content
		}
		messages = append(messages, msg)

		for _, call := range msg.ToolCalls {
			resultText, artifact, dispatchErr := l.dispatch(ctx, call)
			if dispatchErr != nil {
				// One feedback-and-retry cycle: surface the error text
				// to the engine instead of crashing the turn. A second
				// consecutive malformed call aborts.
				if dispatchRetried {
					return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedToolCall, dispatchErr)
				}
				dispatchRetried = true
				resultText = fmt.Sprintf("Error: %v", dispatchErr)
				l.log.Warn().Str("tool", call.Function.Name).Err(dispatchErr).
					Msg("malformed tool call, surfacing error to engine")
			} else {
				dispatchRetried = false
				if artifact != nil {
					sink = append(sink, artifact)
				}
			}

			steps = append(steps, StepLog{
				Tool:   call.Function.Name,
				Input:  call.Function.Arguments,
				Output: resultText,
			})
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    resultText,
				ToolCallID: call.ID,
			})
		}
	}

	// Round cap reached: force termination and surface whatever
	// partial reasoning exists.
	l.log.Warn().Int("max_rounds", l.maxRounds).Msg("tool round cap reached")
	answer := cleanAnswer(lastContent)
	if answer == "" {
		answer = capAnswer
	}
	return &TurnResult{Answer: answer, Artifacts: sink, Steps: steps}, nil
}

// dispatch resolves and executes one tool call. An error return means
// a dispatch fault (unknown name or contract-violating input); tool
// and provider faults arrive as result text from the handler.
func (l *Loop) dispatch(ctx context.Context, call openai.ToolCall) (string, *charts.Artifact, error) {
	handler, err := l.registry.Resolve(call.Function.Name)
	if err != nil {
		return "", nil, err
	}

	result, err := handler(ctx, []byte(call.Function.Arguments))
	if err != nil {
		return "", nil, apperrors.NewToolError(call.Function.Name, call.Function.Arguments, err)
	}

	l.log.Debug().Str("tool", call.Function.Name).
		Str("args", call.Function.Arguments).
		Bool("artifact", result.Artifact != nil).
		Msg("tool executed")
	return result.Text, result.Artifact, nil
}

// cleanAnswer strips hallucinated inline image markup and surrounding
// whitespace from the final answer.
func cleanAnswer(answer string) string {
	return strings.TrimSpace(imageMarkup.ReplaceAllString(answer, ""))
}
