package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/models"
)

// generateInsights runs after every entry creation. It only acts when
// the new entry's theme recurs: at least two other entries must share a
// tag with it. It then re-scans the whole collection for the two
// hardcoded thematic thresholds. De-duplication is substring containment
// against existing titles, which guarantees the generator never emits
// two insights with the same title.
func (s *Service) generateInsights(entry *models.JournalEntry) {
	all, _, err := s.storage.ListEntries(EntryFilter{})
	if err != nil {
		s.logger.Warn("Insight scan failed to list entries", zap.Error(err))
		return
	}

	overlapping := 0
	for _, e := range all {
		if e.ID != entry.ID && hasAnyTag(e.Tags, entry.Tags) {
			overlapping++
		}
	}
	if overlapping < 2 {
		return
	}

	existing, err := s.storage.ListInsights("")
	if err != nil {
		s.logger.Warn("Insight scan failed to list insights", zap.Error(err))
		return
	}

	anxietyCount := countTagged(all, "anxiety")
	if anxietyCount >= 3 && !anyTitleContains(existing, "Anxiety Pattern") {
		s.emitInsight(&models.Insight{
			ID:    uuid.NewString(),
			Type:  models.InsightPattern,
			Title: "Recurring Anxiety Pattern Detected",
			Description: fmt.Sprintf(
				"You've had %d conversations about anxiety-related topics. Consider exploring these patterns during calmer moments.",
				anxietyCount),
			Frequency:      anxietyCount,
			Actionable:     `Try scheduling dedicated "worry time" during the day to process concerns before bedtime.`,
			LastOccurrence: time.Now(),
		})
	}

	businessCount := countTagged(all, "business")
	if businessCount >= 3 && !anyTitleContains(existing, "Business Focus") {
		s.emitInsight(&models.Insight{
			ID:    uuid.NewString(),
			Type:  models.InsightAchievement,
			Title: "Strong Business Focus",
			Description: fmt.Sprintf(
				"You've had %d conversations about business strategy and growth. Your dedication to strategic thinking is evident.",
				businessCount),
			Frequency:      businessCount,
			Actionable:     "Consider documenting these insights in a separate business strategy document.",
			LastOccurrence: time.Now(),
		})
	}
}

func (s *Service) emitInsight(insight *models.Insight) {
	if err := s.storage.CreateInsight(insight); err != nil {
		s.logger.Warn("Failed to store generated insight",
			zap.String("title", insight.Title), zap.Error(err))
		return
	}
	s.logger.Info("Generated insight",
		zap.String("type", string(insight.Type)),
		zap.String("title", insight.Title),
		zap.Int("frequency", insight.Frequency))
}

func countTagged(entries []*models.JournalEntry, tag string) int {
	n := 0
	for _, e := range entries {
		for _, t := range e.Tags {
			if t == tag {
				n++
				break
			}
		}
	}
	return n
}

func anyTitleContains(insights []*models.Insight, fragment string) bool {
	for _, in := range insights {
		if strings.Contains(in.Title, fragment) {
			return true
		}
	}
	return false
}
