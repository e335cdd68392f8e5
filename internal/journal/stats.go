package journal

import (
	"math"
	"sort"

	"github.com/shanilnc/night-mind/internal/models"
)

// TagCount is one entry in the top-tags list.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// MoodPoint is the average mood for one calendar day.
type MoodPoint struct {
	Date        string  `json:"date"`
	AverageMood float64 `json:"average_mood"`
}

// Stats is the dashboard snapshot: totals, average mood, the five most
// frequent tags and the mood trend over the last seven recorded days.
type Stats struct {
	TotalEntries        int         `json:"total_entries"`
	ConversationEntries int         `json:"conversation_entries"`
	ManualEntries       int         `json:"manual_entries"`
	TotalMoodEntries    int         `json:"total_mood_entries"`
	AverageMood         float64     `json:"average_mood"`
	TopTags             []TagCount  `json:"top_tags"`
	MoodByDate          []MoodPoint `json:"mood_by_date"`
	Insights            int         `json:"insights"`
}

const (
	topTagLimit    = 5
	moodTrendDays  = 7
	moodDateLayout = "2006-01-02"
)

// Stats recomputes the dashboard snapshot over an optional date range.
// The insight count is always global, never filtered.
func (s *Service) Stats(r TimeRange) (*Stats, error) {
	entries, _, err := s.storage.ListEntries(EntryFilter{StartDate: r.Start, EndDate: r.End})
	if err != nil {
		return nil, err
	}
	moods, err := s.storage.ListMoodEntries(r)
	if err != nil {
		return nil, err
	}
	insights, err := s.storage.ListInsights("")
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalEntries:     len(entries),
		TotalMoodEntries: len(moods),
		TopTags:          []TagCount{},
		MoodByDate:       []MoodPoint{},
		Insights:         len(insights),
	}

	for _, e := range entries {
		if e.IsFromConversation {
			stats.ConversationEntries++
		} else {
			stats.ManualEntries++
		}
	}

	if len(moods) > 0 {
		sum := 0
		for _, m := range moods {
			sum += m.Mood
		}
		stats.AverageMood = math.Round(float64(sum)/float64(len(moods))*10) / 10
	}

	stats.TopTags = topTags(entries, topTagLimit)
	stats.MoodByDate = moodTrend(moods, moodTrendDays)
	return stats, nil
}

// topTags counts tag frequency across entries and keeps the limit most
// frequent. The sort is stable, so ties keep first-seen order.
func topTags(entries []*models.JournalEntry, limit int) []TagCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		for _, tag := range e.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(order))
	for _, tag := range order {
		tags = append(tags, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// moodTrend buckets mood entries by local calendar day, averages each
// bucket, and keeps the most recent days in chronological order.
func moodTrend(moods []*models.MoodEntry, days int) []MoodPoint {
	type bucket struct {
		total int
		count int
	}
	buckets := make(map[string]*bucket)
	for _, m := range moods {
		date := m.Timestamp.Local().Format(moodDateLayout)
		b := buckets[date]
		if b == nil {
			b = &bucket{}
			buckets[date] = b
		}
		b.total += m.Mood
		b.count++
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	trend := make([]MoodPoint, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		trend = append(trend, MoodPoint{
			Date:        date,
			AverageMood: float64(b.total) / float64(b.count),
		})
	}
	return trend
}
