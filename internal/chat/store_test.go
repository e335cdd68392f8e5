package chat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/ai"
	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
	"github.com/shanilnc/night-mind/internal/vault"
)

type fakeCompleter struct {
	fail  bool
	reply string
	tags  []string
}

func (f *fakeCompleter) Complete(_ context.Context, _ []models.Message, _ models.CommunicationStyle) (*ai.Completion, error) {
	if f.fail {
		return nil, apperr.Collaborator("completion service", errors.New("down"))
	}
	return &ai.Completion{Content: f.reply, Tags: f.tags}, nil
}

type fakeAnalyzer struct {
	fail    bool
	summary string
	mood    models.ConversationMood
	tags    []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ []models.Message) (*ai.Analysis, error) {
	if f.fail {
		return nil, apperr.Collaborator("analysis service", errors.New("down"))
	}
	return &ai.Analysis{Summary: f.summary, Mood: f.mood, Tags: f.tags}, nil
}

func newTestStore(t *testing.T, completer ai.Completer, analyzer ai.Analyzer) *Store {
	t.Helper()
	s, err := NewStore(vault.NewMemoryStore(), completer, analyzer, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStore_CreatesProfileOnFirstRun(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{}, &fakeAnalyzer{})
	p := s.Profile()
	if p == nil || p.ID == "" {
		t.Fatalf("profile=%+v", p)
	}
	if p.PreferredStyle != models.StyleEmpathetic {
		t.Fatalf("PreferredStyle=%q", p.PreferredStyle)
	}
}

func TestAddMessage_NoActiveConversation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	turn, err := s.AddMessage(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if turn != nil {
		t.Fatalf("turn=%+v, want nil", turn)
	}
}

func TestAddMessage_AppendsUserAndAssistant(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "take a breath", tags: []string{"anxiety"}}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	turn, err := s.AddMessage(context.Background(), "I'm full of anxiety about work", "")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if turn.Warning != nil {
		t.Fatalf("Warning=%v", turn.Warning)
	}

	conv := s.Current()
	if len(conv.Messages) != 2 {
		t.Fatalf("messages=%d, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Sender != models.SenderUser || conv.Messages[1].Sender != models.SenderAssistant {
		t.Fatalf("senders=%q,%q", conv.Messages[0].Sender, conv.Messages[1].Sender)
	}
	if len(conv.Tags) == 0 {
		t.Fatal("conversation tags not merged")
	}
}

// A failed completion still yields a full turn: user message plus the
// fixed fallback reply. The increment is always even.
func TestAddMessage_FallbackOnCompleterFailure(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{fail: true}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	turn, err := s.AddMessage(context.Background(), "anyone there?", "")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if turn.Warning == nil {
		t.Fatal("expected warning")
	}
	if turn.Assistant.Content != FallbackReply {
		t.Fatalf("assistant=%q", turn.Assistant.Content)
	}
	if len(turn.Assistant.Tags) != 0 {
		t.Fatalf("fallback tags=%v, want none", turn.Assistant.Tags)
	}
	if got := len(s.Current().Messages); got != 2 {
		t.Fatalf("messages=%d, want 2", got)
	}
}

func TestAddMessage_EmptyContentRejected(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "", ""); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
}

func TestEndConversation_EmptyIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}

	conv, err := s.EndConversation(context.Background(), nil)
	if err != nil || conv != nil {
		t.Fatalf("conv=%v err=%v, want no-op", conv, err)
	}
	if s.Current() == nil {
		t.Fatal("active conversation should survive a no-op end")
	}
	if len(s.Archive()) != 0 {
		t.Fatalf("archive=%d, want 0", len(s.Archive()))
	}
}

func TestEndConversation_ArchivesAndClearsActive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t,
		&fakeCompleter{reply: "hi"},
		&fakeAnalyzer{summary: "a calm talk", mood: models.ConversationPositive, tags: []string{"sleep"}})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "can't sleep", ""); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	after := 4
	conv, err := s.EndConversation(context.Background(), &after)
	if err != nil {
		t.Fatalf("EndConversation: %v", err)
	}
	if conv.EndTime == nil || !conv.Ended() {
		t.Fatal("end time not stamped")
	}
	if conv.Summary != "a calm talk" || conv.Mood != models.ConversationPositive {
		t.Fatalf("summary=%q mood=%q", conv.Summary, conv.Mood)
	}
	if s.Current() != nil {
		t.Fatal("active reference not cleared")
	}
	if len(s.Archive()) != 1 {
		t.Fatalf("archive=%d, want 1", len(s.Archive()))
	}
}

// Analysis failure must not block ending: the conversation is archived
// without summary, mood or tags, and the failure comes back as a warning.
func TestEndConversation_AnalyzerFailureStillArchives(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{fail: true})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "hello", ""); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	conv, err := s.EndConversation(context.Background(), nil)
	if conv == nil {
		t.Fatal("conversation not archived")
	}
	if !apperr.IsCollaborator(err) {
		t.Fatalf("err=%v, want collaborator warning", err)
	}
	if conv.Summary != "" || conv.Mood != "" {
		t.Fatalf("summary=%q mood=%q, want empty", conv.Summary, conv.Mood)
	}
	if s.Current() != nil {
		t.Fatal("active reference not cleared")
	}
}

// Starting a new conversation while one with messages is active archives
// the old one instead of discarding it.
func TestNewConversation_ArchivesAbandoned(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	first, err := s.NewConversation()
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "hello", ""); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	second, err := s.NewConversation()
	if err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a fresh conversation")
	}

	archive := s.Archive()
	if len(archive) != 1 || archive[0].ID != first.ID {
		t.Fatalf("archive=%v", archive)
	}
	if archive[0].EndTime == nil {
		t.Fatal("abandoned conversation missing end time")
	}
}

func TestNewConversation_ReplacesEmptyWithoutArchiving(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if len(s.Archive()) != 0 {
		t.Fatalf("archive=%d, want 0", len(s.Archive()))
	}
}

func TestResume_SetsCurrentFromArchive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{})
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "hello", ""); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	ended, err := s.EndConversation(context.Background(), nil)
	if err != nil {
		t.Fatalf("EndConversation: %v", err)
	}

	resumed, err := s.Resume(ended.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.ID != ended.ID {
		t.Fatalf("resumed=%q, want %q", resumed.ID, ended.ID)
	}
	if _, err := s.Resume("missing"); !apperr.IsNotFound(err) {
		t.Fatalf("err=%v, want not found", err)
	}
}

// State written through the vault must come back on the next start.
func TestStore_StatePersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	blobs := vault.NewMemoryStore()
	s, err := NewStore(blobs, &fakeCompleter{reply: "hi"}, &fakeAnalyzer{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if _, err := s.AddMessage(context.Background(), "remember me", ""); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if _, err := s.EndConversation(context.Background(), nil); err != nil {
		t.Fatalf("EndConversation: %v", err)
	}

	reloaded, err := NewStore(blobs, &fakeCompleter{}, &fakeAnalyzer{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	if got := len(reloaded.Archive()); got != 1 {
		t.Fatalf("archive=%d, want 1", got)
	}
	if reloaded.Profile().ID != s.Profile().ID {
		t.Fatal("profile not restored")
	}
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &fakeCompleter{}, &fakeAnalyzer{})
	name := "Shanil"
	style := models.StyleDirect
	p, err := s.UpdateProfile(ProfileUpdate{Name: &name, PreferredStyle: &style})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.Name != "Shanil" || p.PreferredStyle != models.StyleDirect {
		t.Fatalf("profile=%+v", p)
	}

	bad := models.CommunicationStyle("shouty")
	if _, err := s.UpdateProfile(ProfileUpdate{PreferredStyle: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("err=%v, want validation error", err)
	}
}
