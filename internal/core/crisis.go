package core

import "strings"

// Rule-based first line of defense. Plain substring matching, not semantic
// understanding: "I could die of embarrassment" trips it and paraphrases slip
// past it. The match only gates which canned response path runs, so false
// positives err on the side of caution.
var crisisKeywords = []string{"suicide", "kill myself", "hurt myself", "end it all", "die", "overdose"}

// CrisisMessage is returned for every message the keyword filter flags. The
// completion provider is never consulted on that path.
const CrisisMessage = "CRITICAL: I'm very concerned about what you're saying. Please know that you're not alone. If you're in immediate danger, please call emergency services (911 in the U.S.) or the National Suicide Prevention Lifeline at 988. I am an AI and cannot provide professional help."

// IsCrisisMessage reports whether the message contains any crisis keyword,
// case-insensitively.
func IsCrisisMessage(message string) bool {
	lowered := strings.ToLower(message)
	for _, keyword := range crisisKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
