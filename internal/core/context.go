package core

import (
	"fmt"

	"github.com/FVTVLIX/Claria/internal/store"
)

const personaInstruction = "You are Claria, a compassionate, supportive, and non-judgmental mental health companion. Your goal is to listen, validate feelings, and offer gentle coping strategies. You are NOT a licensed therapist and should not diagnose or prescribe. If a user seems to be in severe distress, kindly suggest they seek professional help. Keep your responses concise (under 100 words), warm, and encouraging. Use a calm, soothing tone."

// historyLimit caps how much conversation history is sent to the provider,
// keeping the context at most 1 system entry + 10 messages no matter how long
// the conversation gets. Older turns are dropped, not summarized.
const historyLimit = 10

// PromptMessage is one entry of the context sent to the completion provider.
type PromptMessage struct {
	Role    string
	Content string
}

type ContextBuilder struct {
	convStore ConversationStore
}

func NewContextBuilder(convStore ConversationStore) *ContextBuilder {
	return &ContextBuilder{convStore: convStore}
}

// Build assembles the provider context: the persona instruction followed by
// the user's most recent messages in chronological order. The caller persists
// the latest user turn before calling Build, so it arrives as part of the
// history window rather than being appended separately.
func (b *ContextBuilder) Build(userID int64) ([]PromptMessage, error) {
	recent, err := b.convStore.ListRecentMessages(userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	prompt := make([]PromptMessage, 0, len(recent)+1)
	prompt = append(prompt, PromptMessage{Role: store.RoleSystem, Content: personaInstruction})

	// ListRecentMessages returns newest first; the provider needs oldest first.
	for i := len(recent) - 1; i >= 0; i-- {
		prompt = append(prompt, PromptMessage{Role: recent[i].Role, Content: recent[i].Content})
	}

	return prompt, nil
}
