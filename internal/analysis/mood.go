// Package analysis holds the engine's text heuristics: the
// conversation-level mood classifier and the digest that turns a
// conversation into a journal entry.
package analysis

import (
	"strings"

	"github.com/shanilnc/night-mind/internal/models"
)

var positiveWords = []string{
	"better", "good", "happy", "calm", "peaceful", "hopeful", "confident",
}

var negativeWords = []string{
	"anxious", "worried", "scared", "stressed", "overwhelmed", "sad", "angry",
}

// DetectOverallMood classifies a conversation by counting positive and
// negative marker words across all messages. Each marker counts once per
// message it appears in. A side wins only with a better than 1.5x
// majority; everything else, including no markers at all, is neutral.
func DetectOverallMood(messages []models.Message) models.ConversationMood {
	var positive, negative int
	for _, m := range messages {
		content := strings.ToLower(m.Content)
		for _, w := range positiveWords {
			if strings.Contains(content, w) {
				positive++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(content, w) {
				negative++
			}
		}
	}

	switch {
	case float64(positive) > float64(negative)*1.5:
		return models.ConversationPositive
	case float64(negative) > float64(positive)*1.5:
		return models.ConversationNegative
	default:
		return models.ConversationNeutral
	}
}
