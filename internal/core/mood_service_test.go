package core

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/FVTVLIX/Claria/internal/store"
)

type fakeMoodStore struct {
	entries []store.MoodEntry
}

func (f *fakeMoodStore) AppendMoodEntry(userID int64, score int, note, tags string) (*store.MoodEntry, error) {
	entry := store.MoodEntry{
		ID:        fmt.Sprintf("entry-%d", len(f.entries)+1),
		UserID:    userID,
		Score:     score,
		Note:      note,
		Tags:      tags,
		Timestamp: time.Now(),
	}
	f.entries = append(f.entries, entry)
	return &entry, nil
}

func (f *fakeMoodStore) ListMoodEntries(userID int64) ([]store.MoodEntry, error) {
	var out []store.MoodEntry
	for _, entry := range f.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeMoodStore) ListRecentMoodEntries(userID int64, limit int) ([]store.MoodEntry, error) {
	var out []store.MoodEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func TestComputeTagAveragesGrouping(t *testing.T) {
	moodStore := &fakeMoodStore{}
	svc := NewMoodService(moodStore)

	if _, err := svc.LogMood(1, 4, "", "Work, stress"); err != nil {
		t.Fatalf("LogMood err: %v", err)
	}
	if _, err := svc.LogMood(1, 2, "", "work"); err != nil {
		t.Fatalf("LogMood err: %v", err)
	}

	analytics, err := svc.ComputeTagAverages(1)
	if err != nil {
		t.Fatalf("ComputeTagAverages err: %v", err)
	}

	// Case-insensitive grouping, first-seen label order.
	wantLabels := []string{"Work", "Stress"}
	if !reflect.DeepEqual(analytics.Labels, wantLabels) {
		t.Errorf("labels = %v, want %v", analytics.Labels, wantLabels)
	}
	wantData := []float64{3.0, 4.0}
	if !reflect.DeepEqual(analytics.Data, wantData) {
		t.Errorf("data = %v, want %v", analytics.Data, wantData)
	}
}

func TestComputeTagAveragesRounding(t *testing.T) {
	moodStore := &fakeMoodStore{}
	svc := NewMoodService(moodStore)

	for _, score := range []int{5, 4, 4} {
		if _, err := svc.LogMood(1, score, "", "sleep"); err != nil {
			t.Fatalf("LogMood err: %v", err)
		}
	}

	analytics, err := svc.ComputeTagAverages(1)
	if err != nil {
		t.Fatalf("ComputeTagAverages err: %v", err)
	}

	if len(analytics.Data) != 1 || analytics.Data[0] != 4.33 {
		t.Errorf("expected [4.33], got %v", analytics.Data)
	}
}

func TestComputeTagAveragesIdempotent(t *testing.T) {
	moodStore := &fakeMoodStore{}
	svc := NewMoodService(moodStore)

	if _, err := svc.LogMood(1, 3, "", "family, health"); err != nil {
		t.Fatalf("LogMood err: %v", err)
	}

	first, err := svc.ComputeTagAverages(1)
	if err != nil {
		t.Fatalf("ComputeTagAverages err: %v", err)
	}
	second, err := svc.ComputeTagAverages(1)
	if err != nil {
		t.Fatalf("ComputeTagAverages err: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs: %v vs %v", first, second)
	}
}

func TestComputeTagAveragesUntagged(t *testing.T) {
	moodStore := &fakeMoodStore{}
	svc := NewMoodService(moodStore)

	if _, err := svc.LogMood(1, 5, "no tags on this one", ""); err != nil {
		t.Fatalf("LogMood err: %v", err)
	}
	if _, err := svc.LogMood(1, 1, "", " , ,"); err != nil {
		t.Fatalf("LogMood err: %v", err)
	}

	analytics, err := svc.ComputeTagAverages(1)
	if err != nil {
		t.Fatalf("ComputeTagAverages err: %v", err)
	}

	if len(analytics.Labels) != 0 {
		t.Errorf("untagged entries should contribute to no group, got labels %v", analytics.Labels)
	}
}

func TestLogMoodValidation(t *testing.T) {
	moodStore := &fakeMoodStore{}
	svc := NewMoodService(moodStore)

	for _, score := range []int{0, 6, -1} {
		_, err := svc.LogMood(1, score, "", "")
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("score %d: expected ValidationError, got %v", score, err)
		}
	}

	if len(moodStore.entries) != 0 {
		t.Errorf("rejected scores must not be stored, got %d entries", len(moodStore.entries))
	}
}
