package journal

import (
	"sort"
	"strings"
	"sync"

	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
)

// MemoryStorage keeps the journal in process memory, in insertion order.
type MemoryStorage struct {
	mu       sync.RWMutex
	entries  []*models.JournalEntry
	moods    []*models.MoodEntry
	insights []*models.Insight
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) CreateEntry(entry *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *entry
	s.entries = append(s.entries, &e)
	return nil
}

func (s *MemoryStorage) GetEntry(id string) (*models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			out := *e
			return &out, nil
		}
	}
	return nil, apperr.NotFound("journal entry", id)
}

func (s *MemoryStorage) ListEntries(filter EntryFilter) ([]*models.JournalEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if matchesFilter(e, filter) {
			out := *e
			matched = append(matched, &out)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := len(matched)
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (s *MemoryStorage) UpdateEntry(entry *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == entry.ID {
			updated := *entry
			s.entries[i] = &updated
			return nil
		}
	}
	return apperr.NotFound("journal entry", entry.ID)
}

func (s *MemoryStorage) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("journal entry", id)
}

func (s *MemoryStorage) CreateMoodEntry(entry *models.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := *entry
	s.moods = append(s.moods, &m)
	return nil
}

func (s *MemoryStorage) ListMoodEntries(r TimeRange) ([]*models.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.MoodEntry, 0, len(s.moods))
	for _, m := range s.moods {
		if r.Start != nil && m.Timestamp.Before(*r.Start) {
			continue
		}
		if r.End != nil && m.Timestamp.After(*r.End) {
			continue
		}
		out := *m
		matched = append(matched, &out)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

func (s *MemoryStorage) CreateInsight(insight *models.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := *insight
	s.insights = append(s.insights, &in)
	return nil
}

func (s *MemoryStorage) ListInsights(insightType models.InsightType) ([]*models.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Insight, 0, len(s.insights))
	for _, in := range s.insights {
		if insightType != "" && in.Type != insightType {
			continue
		}
		out := *in
		matched = append(matched, &out)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].LastOccurrence.After(matched[j].LastOccurrence)
	})
	return matched, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

func matchesFilter(e *models.JournalEntry, f EntryFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Content), needle) &&
			!strings.Contains(strings.ToLower(e.Title), needle) {
			return false
		}
	}
	if len(f.Tags) > 0 && !hasAnyTag(e.Tags, f.Tags) {
		return false
	}
	if f.StartDate != nil && e.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Timestamp.After(*f.EndDate) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func paginate(entries []*models.JournalEntry, page, limit int) []*models.JournalEntry {
	if limit <= 0 {
		return entries
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(entries) {
		return []*models.JournalEntry{}
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
