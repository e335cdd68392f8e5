package models

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

// MessageMood is the mood tag a user may attach to a single message.
type MessageMood string

const (
	MoodAnxious  MessageMood = "anxious"
	MoodCalm     MessageMood = "calm"
	MoodConfused MessageMood = "confused"
	MoodHopeful  MessageMood = "hopeful"
	MoodStressed MessageMood = "stressed"
	MoodRelaxed  MessageMood = "relaxed"
)

// ValidMessageMood reports whether m is empty or one of the known mood tags.
func ValidMessageMood(m MessageMood) bool {
	switch m {
	case "", MoodAnxious, MoodCalm, MoodConfused, MoodHopeful, MoodStressed, MoodRelaxed:
		return true
	}
	return false
}

// ConversationMood is the overall mood classification of a whole conversation.
type ConversationMood string

const (
	ConversationPositive ConversationMood = "positive"
	ConversationNegative ConversationMood = "negative"
	ConversationNeutral  ConversationMood = "neutral"
)

// Message is a single turn in a conversation. Immutable once created.
type Message struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Mood      MessageMood `json:"mood,omitempty"`
	Tags      []string    `json:"tags"`
}

// Conversation is an ordered message sequence with derived metadata.
// Active conversations accept appended messages; ended ones are frozen
// in the archive.
type Conversation struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Messages           []Message        `json:"messages"`
	StartTime          time.Time        `json:"start_time"`
	EndTime            *time.Time       `json:"end_time,omitempty"`
	AnxietyLevelBefore *int             `json:"anxiety_level_before,omitempty"`
	AnxietyLevelAfter  *int             `json:"anxiety_level_after,omitempty"`
	Tags               []string         `json:"tags"`
	Summary            string           `json:"summary,omitempty"`
	Mood               ConversationMood `json:"mood,omitempty"`
}

// Ended reports whether the conversation has been closed out.
func (c *Conversation) Ended() bool {
	return c.EndTime != nil
}

// UserMessageCount counts messages sent by the user.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			n++
		}
	}
	return n
}
