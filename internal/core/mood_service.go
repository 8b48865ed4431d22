package core

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FVTVLIX/Claria/internal/store"
)

// The dashboard shows the last 7 entries.
const dashboardMoodLimit = 7

type MoodStore interface {
	AppendMoodEntry(userID int64, score int, note, tags string) (*store.MoodEntry, error)
	ListMoodEntries(userID int64) ([]store.MoodEntry, error)
	ListRecentMoodEntries(userID int64, limit int) ([]store.MoodEntry, error)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TagAnalytics holds per-tag average scores, ready for charting. Labels and
// Data are parallel slices.
type TagAnalytics struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type MoodService struct {
	moodStore MoodStore
}

func NewMoodService(moodStore MoodStore) *MoodService {
	return &MoodService{moodStore: moodStore}
}

func (s *MoodService) LogMood(userID int64, score int, note, tags string) (*store.MoodEntry, error) {
	if score < 1 || score > 5 {
		return nil, &ValidationError{Field: "score", Reason: "must be an integer between 1 and 5"}
	}
	return s.moodStore.AppendMoodEntry(userID, score, note, tags)
}

func (s *MoodService) RecentMoods(userID int64) ([]store.MoodEntry, error) {
	return s.moodStore.ListRecentMoodEntries(userID, dashboardMoodLimit)
}

// ComputeTagAverages groups the user's mood entries by tag (case-insensitive,
// comma-delimited) and averages the scores per tag, rounded to 2 decimals.
// Output order is first-seen tag order. Recomputed from the full entry set on
// every call; untagged entries contribute to no group.
func (s *MoodService) ComputeTagAverages(userID int64) (*TagAnalytics, error) {
	entries, err := s.moodStore.ListMoodEntries(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mood entries: %w", err)
	}

	type tagTotals struct {
		sum   int
		count int
	}
	totals := make(map[string]*tagTotals)
	var seen []string

	for _, entry := range entries {
		for _, rawTag := range strings.Split(entry.Tags, ",") {
			tag := strings.ToLower(strings.TrimSpace(rawTag))
			if tag == "" {
				continue
			}
			t, ok := totals[tag]
			if !ok {
				t = &tagTotals{}
				totals[tag] = t
				seen = append(seen, tag)
			}
			t.sum += entry.Score
			t.count++
		}
	}

	analytics := &TagAnalytics{Labels: []string{}, Data: []float64{}}
	titleCaser := cases.Title(language.English)
	for _, tag := range seen {
		t := totals[tag]
		average := math.Round(float64(t.sum)/float64(t.count)*100) / 100
		analytics.Labels = append(analytics.Labels, titleCaser.String(tag))
		analytics.Data = append(analytics.Data, average)
	}

	return analytics, nil
}
