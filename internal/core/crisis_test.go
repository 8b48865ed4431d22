package core

import "testing"

func TestIsCrisisMessage(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"I want to kill myself", true},
		{"I've been thinking about SUICIDE", true},
		{"sometimes I want to hurt myself", true},
		{"I just want to end it all", true},
		{"I took an overdose once", true},
		// Substring matching is deliberately coarse.
		{"I could die of embarrassment", true},
		{"I had a great day", false},
		{"work has been stressful lately", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsCrisisMessage(tt.message); got != tt.want {
			t.Errorf("IsCrisisMessage(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
