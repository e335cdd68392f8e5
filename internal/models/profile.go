package models

import "time"

// CommunicationStyle steers how the assistant phrases its replies.
type CommunicationStyle string

const (
	StyleEmpathetic CommunicationStyle = "empathetic"
	StyleDirect     CommunicationStyle = "direct"
	StyleAnalytical CommunicationStyle = "analytical"
)

// ValidCommunicationStyle reports whether s is one of the known styles.
func ValidCommunicationStyle(s CommunicationStyle) bool {
	switch s {
	case StyleEmpathetic, StyleDirect, StyleAnalytical:
		return true
	}
	return false
}

// UserProfile holds the single local user's preferences. Created once at
// first run and mutated only through explicit profile updates.
type UserProfile struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	PreferredStyle   CommunicationStyle `json:"preferred_communication_style"`
	Triggers         []string           `json:"triggers"`
	CopingStrategies []string           `json:"coping_strategies"`
	Goals            []string           `json:"goals"`
	CreatedAt        time.Time          `json:"created_at"`
}
