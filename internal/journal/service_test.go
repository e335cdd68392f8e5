package journal

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryStorage(), zap.NewNop())
}

func intp(v int) *int { return &v }

func anxiousConversation(id string) *models.Conversation {
	return &models.Conversation{
		ID: id,
		Messages: []models.Message{
			{Content: "I'm anxious about work and worried about my decision", Sender: models.SenderUser},
			{Content: "Tell me more about that.", Sender: models.SenderAssistant},
		},
	}
}

func TestCreateEntry_Validation(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	if _, err := s.CreateEntry(CreateEntryParams{Content: "   "}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
	if _, err := s.CreateEntry(CreateEntryParams{Content: "ok", Mood: intp(11)}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
	if _, err := s.CreateEntry(CreateEntryParams{Content: "ok", Mood: intp(10)}); err != nil {
		t.Fatalf("mood=10 rejected: %v", err)
	}
	if _, err := s.CreateEntry(CreateEntryParams{Content: "ok", Mood: intp(1)}); err != nil {
		t.Fatalf("mood=1 rejected: %v", err)
	}
}

func TestCreateEntry_DefaultsTitle(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	entry, err := s.CreateEntry(CreateEntryParams{Content: "long day"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if !strings.HasPrefix(entry.Title, "Journal Entry ") {
		t.Fatalf("Title=%q", entry.Title)
	}
	if entry.IsFromConversation {
		t.Fatal("manual entry flagged as conversation-derived")
	}
}

func TestUpdateEntry_ManualOnly(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	manual, err := s.CreateEntry(CreateEntryParams{Content: "first draft"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	newContent := "second draft"
	updated, err := s.UpdateEntry(manual.ID, UpdateEntryParams{Content: &newContent})
	if err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if updated.Content != "second draft" {
		t.Fatalf("Content=%q", updated.Content)
	}

	derived, err := s.CreateFromConversation(anxiousConversation("c1"))
	if err != nil {
		t.Fatalf("CreateFromConversation: %v", err)
	}
	if _, err := s.UpdateEntry(derived.ID, UpdateEntryParams{Content: &newContent}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	content := "x"
	if _, err := s.UpdateEntry("missing", UpdateEntryParams{Content: &content}); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v, want not found", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	entry, err := s.CreateEntry(CreateEntryParams{Content: "to be deleted"})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if err := s.DeleteEntry(entry.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := s.GetEntry(entry.ID); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v, want not found", err)
	}
	if err := s.DeleteEntry(entry.ID); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v, want not found", err)
	}
}

func TestCreateFromConversation_Shape(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	entry, err := s.CreateFromConversation(anxiousConversation("c9"))
	if err != nil {
		t.Fatalf("CreateFromConversation: %v", err)
	}
	if !entry.IsFromConversation || entry.ConversationID != "c9" {
		t.Fatalf("entry=%+v", entry)
	}
	if entry.MessageCount != 2 || entry.UserMessageCount != 1 || entry.AIMessageCount != 1 {
		t.Fatalf("counts=%d/%d/%d", entry.MessageCount, entry.UserMessageCount, entry.AIMessageCount)
	}
	hasAnxiety := false
	for _, tag := range entry.Tags {
		if tag == "anxiety" {
			hasAnxiety = true
		}
	}
	if !hasAnxiety {
		t.Fatalf("Tags=%v, want anxiety", entry.Tags)
	}
	if !strings.Contains(entry.Content, "Conversation Summary:") {
		t.Fatalf("Content=%q", entry.Content)
	}

	if _, err := s.CreateFromConversation(&models.Conversation{ID: "empty"}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
}

func TestListEntries_FilterAndPagination(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	for i := 0; i < 5; i++ {
		if _, err := s.CreateEntry(CreateEntryParams{
			Content: fmt.Sprintf("note %d about sleep", i),
			Tags:    []string{"sleep"},
		}); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}
	if _, err := s.CreateEntry(CreateEntryParams{Content: "about money", Tags: []string{"money"}}); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	entries, total, err := s.ListEntries(EntryFilter{Tags: []string{"sleep"}, Page: 1, Limit: 3})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 5 || len(entries) != 3 {
		t.Fatalf("total=%d page=%d", total, len(entries))
	}

	entries, total, err = s.ListEntries(EntryFilter{Search: "money"})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("total=%d len=%d", total, len(entries))
	}
}

func TestTrackMood_Validation(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	if _, err := s.TrackMood(TrackMoodParams{Mood: 11}); !apperr.IsValidation(err) {
		t.Fatalf("mood=11 err=%v, want validation error", err)
	}
	if _, err := s.TrackMood(TrackMoodParams{Mood: 0}); !apperr.IsValidation(err) {
		t.Fatalf("mood=0 err=%v, want validation error", err)
	}
	for _, mood := range []int{1, 10} {
		entry, err := s.TrackMood(TrackMoodParams{Mood: mood})
		if err != nil {
			t.Fatalf("mood=%d rejected: %v", mood, err)
		}
		if entry.Emotions == nil || entry.Triggers == nil || entry.PhysicalSymptoms == nil {
			t.Fatalf("nil slices in %+v", entry)
		}
	}
}

// Three anxiety-themed conversions must produce exactly one insight
// titled "Recurring Anxiety Pattern Detected" with frequency 3.
func TestInsightGenerator_AnxietyPatternScenario(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	for i := 0; i < 3; i++ {
		if _, err := s.CreateFromConversation(anxiousConversation(fmt.Sprintf("c%d", i))); err != nil {
			t.Fatalf("CreateFromConversation: %v", err)
		}
	}

	insights, err := s.ListInsights("")
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	matches := 0
	for _, in := range insights {
		if in.Title == "Recurring Anxiety Pattern Detected" {
			matches++
			if in.Frequency != 3 {
				t.Fatalf("Frequency=%d, want 3", in.Frequency)
			}
			if in.Type != models.InsightPattern {
				t.Fatalf("Type=%q", in.Type)
			}
		}
	}
	if matches != 1 {
		t.Fatalf("matches=%d, want exactly 1", matches)
	}

	// A fourth conversion must not duplicate the insight.
	if _, err := s.CreateFromConversation(anxiousConversation("c4")); err != nil {
		t.Fatalf("CreateFromConversation: %v", err)
	}
	insights, err = s.ListInsights("")
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	matches = 0
	for _, in := range insights {
		if in.Title == "Recurring Anxiety Pattern Detected" {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("matches after 4th conversion=%d, want 1", matches)
	}
}

func TestInsightGenerator_NeedsRecurringTheme(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	// Two entries sharing a tag are not enough: the new entry needs at
	// least two prior overlapping entries.
	for i := 0; i < 2; i++ {
		if _, err := s.CreateFromConversation(anxiousConversation(fmt.Sprintf("c%d", i))); err != nil {
			t.Fatalf("CreateFromConversation: %v", err)
		}
	}
	insights, err := s.ListInsights("")
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	if len(insights) != 0 {
		t.Fatalf("insights=%d, want 0", len(insights))
	}
}

func TestInsightGenerator_BusinessFocus(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	business := func(id string) *models.Conversation {
		return &models.Conversation{
			ID: id,
			Messages: []models.Message{
				{Content: "startup strategy and funding for my business", Sender: models.SenderUser},
			},
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := s.CreateFromConversation(business(fmt.Sprintf("b%d", i))); err != nil {
			t.Fatalf("CreateFromConversation: %v", err)
		}
	}

	insights, err := s.ListInsights(models.InsightAchievement)
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	if len(insights) != 1 || insights[0].Title != "Strong Business Focus" {
		t.Fatalf("insights=%+v", insights)
	}
}

func TestCreateInsight_ManualPath(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	if _, err := s.CreateInsight(CreateInsightParams{Type: "bogus", Title: "t", Description: "d"}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}

	in, err := s.CreateInsight(CreateInsightParams{
		Type:        models.InsightImprovement,
		Title:       "Sleeping earlier",
		Description: "Bedtime moved up by an hour this week.",
	})
	if err != nil {
		t.Fatalf("CreateInsight: %v", err)
	}
	if in.Frequency != 1 {
		t.Fatalf("Frequency=%d, want default 1", in.Frequency)
	}
}
