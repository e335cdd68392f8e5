// Package journal owns journal entries, mood check-ins and insights,
// generates insights from recurring themes, and aggregates dashboard
// statistics.
package journal

import (
	"time"

	"github.com/shanilnc/night-mind/internal/models"
)

// EntryFilter narrows ListEntries. Zero values mean "no constraint";
// Limit 0 means no pagination.
type EntryFilter struct {
	Search    string
	Tags      []string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// TimeRange narrows mood-entry listings. Nil bounds are open.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

type Storage interface {
	CreateEntry(entry *models.JournalEntry) error
	GetEntry(id string) (*models.JournalEntry, error)
	// ListEntries returns entries matching the filter, newest first.
	ListEntries(filter EntryFilter) ([]*models.JournalEntry, int, error)
	UpdateEntry(entry *models.JournalEntry) error
	DeleteEntry(id string) error

	CreateMoodEntry(entry *models.MoodEntry) error
	// ListMoodEntries returns mood entries in the range, newest first.
	ListMoodEntries(r TimeRange) ([]*models.MoodEntry, error)

	CreateInsight(insight *models.Insight) error
	// ListInsights returns insights, optionally filtered by type, most
	// recent occurrence first.
	ListInsights(insightType models.InsightType) ([]*models.Insight, error)

	Close() error
}
