package core

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/FVTVLIX/Claria/internal/store"
)

const configNotice = "System Error: OpenAI API Key not configured. Please check your settings."

// Shown instead of a provider error. The conversation keeps flowing even when
// the completion call fails.
var fallbackResponses = []string{
	"I'm having trouble connecting to my thought process right now, but I'm still here with you.",
	"I hear you, but I'm experiencing a technical hiccup. Please try again in a moment.",
	"It seems I can't reach the server. Just know that your feelings are valid.",
}

// ConversationStore is the append-only chat log the pipeline persists to.
type ConversationStore interface {
	AppendMessage(userID int64, role, content string, isCrisis bool) (*store.ChatMessage, error)
	ListRecentMessages(userID int64, limit int) ([]store.ChatMessage, error)
	ListMessages(userID int64, limit int) ([]store.ChatMessage, error)
}

type ChatReply struct {
	Response string `json:"response"`
	IsCrisis bool   `json:"is_crisis"`
}

type ChatService struct {
	convStore      ConversationStore
	contextBuilder *ContextBuilder
	llmService     Completer
	pickFallback   func(n int) int
}

func NewChatService(convStore ConversationStore, llm Completer) *ChatService {
	return &ChatService{
		convStore:      convStore,
		contextBuilder: NewContextBuilder(convStore),
		llmService:     llm,
		pickFallback:   rand.Intn,
	}
}

// HandleMessage runs one chat turn. The user's message is persisted first, so
// it survives whatever happens downstream; every branch except the
// unconfigured notice then persists exactly one assistant message. Provider
// failures never reach the caller as errors, only persistence failures do.
func (s *ChatService) HandleMessage(ctx context.Context, userID int64, message string) (*ChatReply, error) {
	if _, err := s.convStore.AppendMessage(userID, store.RoleUser, message, false); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	if IsCrisisMessage(message) {
		if _, err := s.convStore.AppendMessage(userID, store.RoleAssistant, CrisisMessage, true); err != nil {
			return nil, fmt.Errorf("failed to store crisis response: %w", err)
		}
		return &ChatReply{Response: CrisisMessage, IsCrisis: true}, nil
	}

	if !s.llmService.Configured() {
		// A client-facing notice, not a conversation turn: no assistant
		// message is persisted for it.
		return &ChatReply{Response: configNotice}, nil
	}

	promptMessages, err := s.contextBuilder.Build(userID)
	if err != nil {
		return nil, err
	}

	response, err := s.llmService.Complete(ctx, promptMessages)
	if err != nil {
		log.Printf("Completion failed for user %d, falling back: %v", userID, err)
		response = fallbackResponses[s.pickFallback(len(fallbackResponses))]
	}

	if _, err := s.convStore.AppendMessage(userID, store.RoleAssistant, response, false); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	return &ChatReply{Response: response, IsCrisis: false}, nil
}

// GetHistory returns the user's conversation in chronological order.
func (s *ChatService) GetHistory(userID int64) ([]store.ChatMessage, error) {
	return s.convStore.ListMessages(userID, 100)
}
