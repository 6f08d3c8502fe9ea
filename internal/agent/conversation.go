package agent

import (
	"context"
	"fmt"
	"time"

	"market-analyst/internal/models"
)

// Conversation owns the ordered turn history of one session and
// drives user requests through the loop. Turns are processed strictly
// sequentially; a Conversation must not be shared across goroutines.
type Conversation struct {
	loop    *Loop
	history []models.Turn
}

// NewConversation creates a conversation seeded with prior history
// (may be nil for a fresh session).
func NewConversation(loop *Loop, history []models.Turn) *Conversation {
	return &Conversation{loop: loop, history: history}
}

// Ask runs one user turn. Any failure escaping the loop is converted
// to a user-visible error answer; either way both the user text and
// the assistant answer are appended to history, so the conversation
// stays coherent for the next round.
func (c *Conversation) Ask(ctx context.Context, userText string) *TurnResult {
	result, err := c.loop.RunTurn(ctx, userText, c.history)
	if err != nil {
		result = &TurnResult{Answer: fmt.Sprintf("Error processing request: %v", err)}
	}

	now := time.Now()
	c.history = append(c.history,
		models.Turn{Role: models.RoleUser, Text: userText, CreatedAt: now},
		models.Turn{Role: models.RoleAssistant, Text: result.Answer, CreatedAt: now},
	)
	return result
}

// History returns the conversation turns accumulated so far.
func (c *Conversation) History() []models.Turn {
	return c.history
}

// LastExchange returns the final two turns, or nil when the
// conversation has not completed a turn yet.
func (c *Conversation) LastExchange() []models.Turn {
	if len(c.history) < 2 {
		return nil
	}
	return c.history[len(c.history)-2:]
}
