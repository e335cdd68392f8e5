package analysis

import (
	"fmt"
	"strings"

	"github.com/shanilnc/night-mind/internal/models"
)

// Keyword families used to theme a conversation. Matching is against
// whitespace-split lower-cased tokens of the user's messages, so each
// family carries the common inflected forms alongside the base word.
var (
	anxietyKeywords = []string{
		"anxiety", "anxious", "stress", "stressed", "worry", "worried",
		"fear", "afraid", "overwhelm", "overwhelmed", "panic", "panicking",
		"nervous", "concerned",
	}
	businessKeywords = []string{
		"startup", "business", "strategy", "funding", "product", "market",
		"growth", "revenue",
	}
	technicalKeywords = []string{
		"code", "coding", "technical", "development", "engineering",
		"architecture", "system",
	}
	lifeKeywords = []string{
		"decision", "life", "future", "career", "relationship", "family",
		"personal",
	}
)

const fallbackTitle = "Night Conversation"

// Digest is the distilled view of a conversation used to build a journal
// entry: themed tags, an estimated mood and anxiety level, a title and a
// one-line summary, plus message counts by sender.
type Digest struct {
	Tags             []string
	Mood             int
	Title            string
	Summary          string
	AnxietyLevel     int
	MessageCount     int
	UserMessageCount int
	AIMessageCount   int
}

// DigestConversation derives a Digest from a conversation transcript.
// Only user messages feed the keyword counts; the assistant echoing a
// theme back must not amplify it.
func DigestConversation(conv *models.Conversation) Digest {
	var userMessages, aiMessages []models.Message
	for _, m := range conv.Messages {
		if m.Sender == models.SenderUser {
			userMessages = append(userMessages, m)
		} else {
			aiMessages = append(aiMessages, m)
		}
	}

	tokens := make(map[string]struct{})
	for _, m := range userMessages {
		for _, w := range strings.Fields(strings.ToLower(m.Content)) {
			tokens[strings.Trim(w, ".,!?;:'\"()")] = struct{}{}
		}
	}

	anxietyCount := countHits(tokens, anxietyKeywords)
	businessCount := countHits(tokens, businessKeywords)
	technicalCount := countHits(tokens, technicalKeywords)
	lifeCount := countHits(tokens, lifeKeywords)

	var tags []string
	if anxietyCount > 0 {
		tags = append(tags, "anxiety")
	}
	if businessCount > 0 {
		tags = append(tags, "business")
	}
	if technicalCount > 0 {
		tags = append(tags, "technical")
	}
	if lifeCount > 0 {
		tags = append(tags, "life-planning")
	}

	mood := 5
	if anxietyCount > 2 {
		mood = 3
	}
	if businessCount > 2 && anxietyCount < 2 {
		mood = 7
	}

	anxietyLevel := 5
	if anxietyCount > 2 {
		anxietyLevel = 8
	}

	title := fallbackTitle
	if len(userMessages) > 0 && userMessages[0].Content != "" {
		title = truncateTitle(userMessages[0].Content, 50)
	}

	summary := fmt.Sprintf("Conversation about %s. %d messages exchanged.",
		strings.Join(tags, ", "), len(userMessages))

	return Digest{
		Tags:             tags,
		Mood:             mood,
		Title:            title,
		Summary:          summary,
		AnxietyLevel:     anxietyLevel,
		MessageCount:     len(conv.Messages),
		UserMessageCount: len(userMessages),
		AIMessageCount:   len(aiMessages),
	}
}

func countHits(tokens map[string]struct{}, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if _, ok := tokens[k]; ok {
			n++
		}
	}
	return n
}

func truncateTitle(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
