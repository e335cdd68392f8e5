package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/analysis"
	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
)

// Service is the journal's mutation and query surface: entry CRUD, mood
// check-ins, insight generation and the stats query. All validation
// happens here; storage implementations only persist.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

func NewService(storage Storage, logger *zap.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// CreateEntryParams carries a manual journal entry. Title defaults to a
// dated placeholder when empty.
type CreateEntryParams struct {
	Title        string
	Content      string
	Mood         *int
	Tags         []string
	AnxietyLevel *int
	Gratitude    string
	Goals        string
}

func (s *Service) CreateEntry(p CreateEntryParams) (*models.JournalEntry, error) {
	if strings.TrimSpace(p.Content) == "" {
		return nil, apperr.Validation("content", "must not be empty")
	}
	if p.Mood != nil && !models.ValidMoodLevel(*p.Mood) {
		return nil, apperr.Validation("mood", "must be between 1 and 10")
	}
	if p.AnxietyLevel != nil && !models.ValidMoodLevel(*p.AnxietyLevel) {
		return nil, apperr.Validation("anxiety_level", "must be between 1 and 10")
	}

	title := p.Title
	if title == "" {
		title = fmt.Sprintf("Journal Entry %s", time.Now().Format("1/2/2006"))
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	entry := &models.JournalEntry{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      strings.TrimSpace(p.Content),
		Mood:         p.Mood,
		Tags:         tags,
		AnxietyLevel: p.AnxietyLevel,
		Gratitude:    p.Gratitude,
		Goals:        p.Goals,
		Timestamp:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.CreateEntry(entry); err != nil {
		return nil, err
	}
	s.generateInsights(entry)
	return entry, nil
}

// CreateFromConversation converts a conversation into a journal entry
// using the digest heuristics. The entry stores a synthesized summary,
// not the raw transcript, and can never be edited afterwards.
func (s *Service) CreateFromConversation(conv *models.Conversation) (*models.JournalEntry, error) {
	if conv == nil || len(conv.Messages) == 0 {
		return nil, apperr.Validation("conversation", "must have at least one message")
	}

	digest := analysis.DigestConversation(conv)

	content := fmt.Sprintf(
		"Conversation Summary: %s\n\nKey Topics: %s\nMessages: %d total (%d from you, %d from AI)",
		digest.Summary, strings.Join(digest.Tags, ", "),
		digest.MessageCount, digest.UserMessageCount, digest.AIMessageCount,
	)

	timestamp := conv.StartTime
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	mood := digest.Mood
	anxiety := digest.AnxietyLevel
	entry := &models.JournalEntry{
		ID:                 uuid.NewString(),
		Title:              digest.Title,
		Content:            content,
		Mood:               &mood,
		Tags:               digest.Tags,
		AnxietyLevel:       &anxiety,
		Timestamp:          timestamp,
		UpdatedAt:          time.Now(),
		IsFromConversation: true,
		ConversationID:     conv.ID,
		MessageCount:       digest.MessageCount,
		UserMessageCount:   digest.UserMessageCount,
		AIMessageCount:     digest.AIMessageCount,
	}

	if err := s.storage.CreateEntry(entry); err != nil {
		return nil, err
	}
	s.generateInsights(entry)
	return entry, nil
}

func (s *Service) GetEntry(id string) (*models.JournalEntry, error) {
	return s.storage.GetEntry(id)
}

func (s *Service) ListEntries(filter EntryFilter) ([]*models.JournalEntry, int, error) {
	return s.storage.ListEntries(filter)
}

// UpdateEntryParams carries a partial entry update; nil fields keep
// their stored value.
type UpdateEntryParams struct {
	Title        *string
	Content      *string
	Mood         *int
	Tags         []string
	AnxietyLevel *int
	Gratitude    *string
	Goals        *string
}

// UpdateEntry edits a manual entry. Conversation-derived entries are
// immutable and rejected.
func (s *Service) UpdateEntry(id string, p UpdateEntryParams) (*models.JournalEntry, error) {
	entry, err := s.storage.GetEntry(id)
	if err != nil {
		return nil, err
	}
	if entry.IsFromConversation {
		return nil, apperr.Validation("entry", "conversation-derived entries cannot be edited")
	}
	if p.Mood != nil && !models.ValidMoodLevel(*p.Mood) {
		return nil, apperr.Validation("mood", "must be between 1 and 10")
	}
	if p.AnxietyLevel != nil && !models.ValidMoodLevel(*p.AnxietyLevel) {
		return nil, apperr.Validation("anxiety_level", "must be between 1 and 10")
	}

	if p.Title != nil && *p.Title != "" {
		entry.Title = *p.Title
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) != "" {
		entry.Content = strings.TrimSpace(*p.Content)
	}
	if p.Mood != nil {
		entry.Mood = p.Mood
	}
	if p.Tags != nil {
		entry.Tags = p.Tags
	}
	if p.AnxietyLevel != nil {
		entry.AnxietyLevel = p.AnxietyLevel
	}
	if p.Gratitude != nil {
		entry.Gratitude = *p.Gratitude
	}
	if p.Goals != nil {
		entry.Goals = *p.Goals
	}
	entry.UpdatedAt = time.Now()

	if err := s.storage.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an entry permanently. The source conversation, if
// any, is untouched.
func (s *Service) DeleteEntry(id string) error {
	return s.storage.DeleteEntry(id)
}

// TrackMoodParams carries an explicit mood check-in.
type TrackMoodParams struct {
	Mood             int
	Emotions         []string
	Triggers         []string
	PhysicalSymptoms []string
	Notes            string
}

// TrackMood records a mood check-in. Check-ins are immutable; there is
// no update path.
func (s *Service) TrackMood(p TrackMoodParams) (*models.MoodEntry, error) {
	if !models.ValidMoodLevel(p.Mood) {
		return nil, apperr.Validation("mood", "must be a number between 1 and 10")
	}

	entry := &models.MoodEntry{
		ID:               uuid.NewString(),
		Mood:             p.Mood,
		Emotions:         orEmpty(p.Emotions),
		Triggers:         orEmpty(p.Triggers),
		PhysicalSymptoms: orEmpty(p.PhysicalSymptoms),
		Notes:            p.Notes,
		Timestamp:        time.Now(),
	}

	if err := s.storage.CreateMoodEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) ListMoodEntries(r TimeRange) ([]*models.MoodEntry, error) {
	return s.storage.ListMoodEntries(r)
}

// CreateInsightParams carries a manually authored insight.
type CreateInsightParams struct {
	Type        models.InsightType
	Title       string
	Description string
	Frequency   int
	Actionable  string
}

// CreateInsight is the manual insight path, identical in shape to what
// the generator emits.
func (s *Service) CreateInsight(p CreateInsightParams) (*models.Insight, error) {
	if !models.ValidInsightType(p.Type) {
		return nil, apperr.Validation("type", "unknown insight type")
	}
	if p.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	if p.Description == "" {
		return nil, apperr.Validation("description", "must not be empty")
	}

	frequency := p.Frequency
	if frequency < 1 {
		frequency = 1
	}

	insight := &models.Insight{
		ID:             uuid.NewString(),
		Type:           p.Type,
		Title:          p.Title,
		Description:    p.Description,
		Frequency:      frequency,
		Actionable:     p.Actionable,
		LastOccurrence: time.Now(),
	}

	if err := s.storage.CreateInsight(insight); err != nil {
		return nil, err
	}
	return insight, nil
}

func (s *Service) ListInsights(insightType models.InsightType) ([]*models.Insight, error) {
	if insightType != "" && !models.ValidInsightType(insightType) {
		return nil, apperr.Validation("type", "unknown insight type")
	}
	return s.storage.ListInsights(insightType)
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
