package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
)

// ChatService handles the conversation list. Messaging itself lives on the
// realtime path; this service only surfaces threads.
type ChatService struct {
	chatRepo *repositories.ChatRepository
	logger   zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(chatRepo *repositories.ChatRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, logger: logger}
}

// Threads returns the user's conversations, most recent first.
func (s *ChatService) Threads(ctx context.Context, userID int64) ([]models.ChatThread, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}
