package models

import "time"

// JournalEntry is a single journal record, either written by hand or
// derived from an ended conversation.
type JournalEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Mood         *int      `json:"mood,omitempty"`
	Tags         []string  `json:"tags"`
	AnxietyLevel *int      `json:"anxiety_level,omitempty"`
	Gratitude    string    `json:"gratitude,omitempty"`
	Goals        string    `json:"goals,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	UpdatedAt    time.Time `json:"updated_at"`

	IsFromConversation bool   `json:"is_from_conversation"`
	ConversationID     string `json:"conversation_id,omitempty"`
	MessageCount       int    `json:"message_count,omitempty"`
	UserMessageCount   int    `json:"user_message_count,omitempty"`
	AIMessageCount     int    `json:"ai_message_count,omitempty"`
}

// MoodEntry is an explicit mood check-in. Immutable once created.
type MoodEntry struct {
	ID               string    `json:"id"`
	Mood             int       `json:"mood"`
	Emotions         []string  `json:"emotions"`
	Triggers         []string  `json:"triggers"`
	PhysicalSymptoms []string  `json:"physical_symptoms"`
	Notes            string    `json:"notes,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

type InsightType string

const (
	InsightPattern     InsightType = "pattern"
	InsightTrigger     InsightType = "trigger"
	InsightImprovement InsightType = "improvement"
	InsightAchievement InsightType = "achievement"
)

// ValidInsightType reports whether t is one of the known insight types.
func ValidInsightType(t InsightType) bool {
	switch t {
	case InsightPattern, InsightTrigger, InsightImprovement, InsightAchievement:
		return true
	}
	return false
}

// Insight is a derived observation about recurring themes. Append-only.
type Insight struct {
	ID             string      `json:"id"`
	Type           InsightType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Frequency      int         `json:"frequency"`
	Actionable     string      `json:"actionable,omitempty"`
	LastOccurrence time.Time   `json:"last_occurrence"`
}

// ValidMoodLevel reports whether v is inside the 1-10 scale.
func ValidMoodLevel(v int) bool {
	return v >= 1 && v <= 10
}
