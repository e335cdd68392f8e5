// Package ai holds the engine's external text-generation collaborators:
// the completion service that answers a user turn and the analysis
// service that summarizes a finished conversation. Both are black-box
// RPCs with bounded timeouts; callers substitute degraded results when
// they fail.
package ai

import (
	"context"

	"github.com/shanilnc/night-mind/internal/models"
)

// Completion is one assistant reply to a user turn.
type Completion struct {
	Content string
	Tags    []string
}

// Analysis is the end-of-conversation report.
type Analysis struct {
	Summary string
	Mood    models.ConversationMood
	Tags    []string
}

// Completer produces an assistant reply for the full message history,
// steered by the user's preferred communication style.
type Completer interface {
	Complete(ctx context.Context, history []models.Message, style models.CommunicationStyle) (*Completion, error)
}

// Analyzer produces a summary, overall mood and tag set for a finished
// conversation transcript.
type Analyzer interface {
	Analyze(ctx context.Context, messages []models.Message) (*Analysis, error)
}
