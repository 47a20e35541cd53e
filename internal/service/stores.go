package service

import (
	"context"

	"altairis-api/internal/model"
)

// UserStore is the persistence surface the services need for user records.
// Implemented by repository.UserRepository; mocked in tests.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateEmail(ctx context.Context, userID string, email string) error
	UpdateStatus(ctx context.Context, userID string, status string) error
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) error
	AppendPost(ctx context.Context, userID string, post model.Post) error
	RemovePost(ctx context.Context, userID string, postID string) error
	Delete(ctx context.Context, id string) error
	CountPosts(ctx context.Context) (int, error)
	FeedPage(ctx context.Context, offset int, limit int) ([]model.FeedPost, error)
	Summaries(ctx context.Context, ids []string) (map[string]model.ParticipantSummary, error)
}

// ChatStore is the persistence surface for two-party chats.
type ChatStore interface {
	AppendMessage(ctx context.Context, chatID string, low string, high string, msg model.Message) error
	ListByParticipant(ctx context.Context, userID string) ([]model.Chat, error)
}
