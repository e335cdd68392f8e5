// Package chat owns the conversation lifecycle: the single active
// conversation, the archive of ended ones, and the user profile. Every
// mutation is persisted through the vault before it returns.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/ai"
	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
	"github.com/shanilnc/night-mind/internal/tagger"
	"github.com/shanilnc/night-mind/internal/vault"
)

// FallbackReply is appended in place of an assistant message when the
// completion service fails. A user turn is never left unanswered.
const FallbackReply = "I'm having trouble connecting right now. Please try again in a moment."

const stateKey = "nightmind-state"

// TurnResult reports the outcome of one chat turn. Warning carries a
// non-fatal collaborator failure; the turn itself still succeeded.
type TurnResult struct {
	User      *models.Message
	Assistant *models.Message
	Warning   error
}

// state is the persisted snapshot of the store.
type state struct {
	Profile       *models.UserProfile    `json:"profile"`
	Conversations []*models.Conversation `json:"conversations"`
	Current       *models.Conversation   `json:"current,omitempty"`
}

// Store holds the user profile, the archive, and at most one active
// conversation. Mutations are serialized; a second writer blocks until
// the first completes.
type Store struct {
	mu        sync.Mutex
	st        state
	blobs     vault.Store
	completer ai.Completer
	analyzer  ai.Analyzer
	logger    *zap.Logger
}

// NewStore loads prior state from the vault, or starts fresh (with a new
// profile) when none exists or it cannot be decrypted.
func NewStore(blobs vault.Store, completer ai.Completer, analyzer ai.Analyzer, logger *zap.Logger) (*Store, error) {
	s := &Store{
		blobs:     blobs,
		completer: completer,
		analyzer:  analyzer,
		logger:    logger,
	}

	data, err := blobs.Get(stateKey)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &s.st); jsonErr != nil {
			logger.Warn("Stored state unreadable, starting fresh", zap.Error(jsonErr))
			s.st = state{}
		}
	case apperr.IsNotFound(err):
		// First run.
	default:
		return nil, err
	}

	if s.st.Profile == nil {
		s.st.Profile = &models.UserProfile{
			ID:               uuid.NewString(),
			PreferredStyle:   models.StyleEmpathetic,
			Triggers:         []string{},
			CopingStrategies: []string{},
			Goals:            []string{},
			CreatedAt:        time.Now(),
		}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewConversation installs a fresh active conversation. An unfinished
// active conversation with messages is archived first, without analysis,
// so no user words are silently discarded.
func (s *Store) NewConversation() (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.st.Current; cur != nil && len(cur.Messages) > 0 {
		now := time.Now()
		cur.EndTime = &now
		s.st.Conversations = append(s.st.Conversations, cur)
		s.logger.Info("Archived abandoned conversation", zap.String("id", cur.ID))
	}

	conv := &models.Conversation{
		ID:        uuid.NewString(),
		Title:     fmt.Sprintf("Session %s", time.Now().Format("1/2/2006")),
		Messages:  []models.Message{},
		StartTime: time.Now(),
		Tags:      []string{},
	}
	s.st.Current = conv

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return conv, nil
}

// AddMessage runs one chat turn: tag and append the user message, ask
// the completion service for a reply, and append either the reply or the
// fixed fallback. Returns a nil result when no conversation is active.
func (s *Store) AddMessage(ctx context.Context, content string, mood models.MessageMood) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Current == nil {
		return nil, nil
	}
	if content == "" {
		return nil, apperr.Validation("content", "must not be empty")
	}
	if !models.ValidMessageMood(mood) {
		return nil, apperr.Validation("mood", "unknown mood tag")
	}

	conv := s.st.Current
	userMsg := models.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    models.SenderUser,
		Timestamp: time.Now(),
		Mood:      mood,
		Tags:      tagger.Extract(content),
	}
	conv.Messages = append(conv.Messages, userMsg)

	result := &TurnResult{User: &conv.Messages[len(conv.Messages)-1]}

	completion, err := s.completer.Complete(ctx, conv.Messages, s.st.Profile.PreferredStyle)
	var aiMsg models.Message
	if err != nil {
		s.logger.Warn("Completion failed, using fallback reply", zap.Error(err))
		result.Warning = err
		aiMsg = models.Message{
			ID:        uuid.NewString(),
			Content:   FallbackReply,
			Sender:    models.SenderAssistant,
			Timestamp: time.Now(),
			Tags:      []string{},
		}
	} else {
		aiMsg = models.Message{
			ID:        uuid.NewString(),
			Content:   completion.Content,
			Sender:    models.SenderAssistant,
			Timestamp: time.Now(),
			Tags:      completion.Tags,
		}
		conv.Tags = mergeTags(conv.Tags, userMsg.Tags, completion.Tags)
	}
	conv.Messages = append(conv.Messages, aiMsg)
	result.Assistant = &conv.Messages[len(conv.Messages)-1]

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return result, nil
}

// EndConversation closes the active conversation: asks the analysis
// service for a summary, mood and tags, stamps the end time, moves the
// conversation into the archive and clears the active reference. A
// failed analysis never blocks ending; the conversation is archived
// without it and the failure is returned as a warning on the result.
// No-op when there is no active conversation or it has no messages.
func (s *Store) EndConversation(ctx context.Context, anxietyLevelAfter *int) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.st.Current
	if conv == nil || len(conv.Messages) == 0 {
		return nil, nil
	}
	if anxietyLevelAfter != nil && !models.ValidMoodLevel(*anxietyLevelAfter) {
		return nil, apperr.Validation("anxiety_level", "must be between 1 and 10")
	}

	now := time.Now()
	conv.EndTime = &now
	conv.AnxietyLevelAfter = anxietyLevelAfter

	var warn error
	report, err := s.analyzer.Analyze(ctx, conv.Messages)
	if err != nil {
		s.logger.Warn("Analysis failed, archiving without it", zap.Error(err))
		warn = err
	} else {
		conv.Summary = report.Summary
		conv.Mood = report.Mood
		conv.Tags = report.Tags
	}

	s.st.Conversations = append(s.st.Conversations, conv)
	s.st.Current = nil

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return conv, warn
}

// SetCurrent replaces the active reference directly, e.g. when resuming
// a historical conversation. Pass nil to clear it.
func (s *Store) SetCurrent(conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Current = conv
	return s.persistLocked()
}

// Resume looks up an archived conversation by id and makes it current.
func (s *Store) Resume(id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range s.st.Conversations {
		if conv.ID == id {
			s.st.Current = conv
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
			return conv, nil
		}
	}
	return nil, apperr.NotFound("conversation", id)
}

// Current returns the active conversation, or nil.
func (s *Store) Current() *models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Current
}

// Archive returns the ended conversations in archival order.
func (s *Store) Archive() []*models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Conversation, len(s.st.Conversations))
	copy(out, s.st.Conversations)
	return out
}

// Profile returns the user profile.
func (s *Store) Profile() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Profile
}

// ProfileUpdate carries the optional fields of a profile update; nil
// fields are left untouched.
type ProfileUpdate struct {
	Name             *string
	PreferredStyle   *models.CommunicationStyle
	Triggers         []string
	CopingStrategies []string
	Goals            []string
}

// UpdateProfile applies a partial update to the user profile.
func (s *Store) UpdateProfile(update ProfileUpdate) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.PreferredStyle != nil && !models.ValidCommunicationStyle(*update.PreferredStyle) {
		return nil, apperr.Validation("preferred_communication_style", "unknown style")
	}

	p := s.st.Profile
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.PreferredStyle != nil {
		p.PreferredStyle = *update.PreferredStyle
	}
	if update.Triggers != nil {
		p.Triggers = update.Triggers
	}
	if update.CopingStrategies != nil {
		p.CopingStrategies = update.CopingStrategies
	}
	if update.Goals != nil {
		p.Goals = update.Goals
	}

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(&s.st)
	if err != nil {
		return apperr.Persistence("marshal", err)
	}
	if err := s.blobs.Set(stateKey, data); err != nil {
		s.logger.Error("Failed to persist state", zap.Error(err))
		return err
	}
	return nil
}

func mergeTags(existing []string, extra ...[]string) []string {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing))
	for _, t := range existing {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	for _, tags := range extra {
		for _, t := range tags {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				merged = append(merged, t)
			}
		}
	}
	return merged
}
