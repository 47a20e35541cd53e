package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"altairis-api/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) UpdateEmail(ctx context.Context, userID string, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *MockUserStore) UpdateStatus(ctx context.Context, userID string, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *MockUserStore) UpdateAvatar(ctx context.Context, userID string, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserStore) AppendPost(ctx context.Context, userID string, post model.Post) error {
	args := m.Called(ctx, userID, post)
	return args.Error(0)
}

func (m *MockUserStore) RemovePost(ctx context.Context, userID string, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) CountPosts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserStore) FeedPage(ctx context.Context, offset int, limit int) ([]model.FeedPost, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedPost), args.Error(1)
}

func (m *MockUserStore) Summaries(ctx context.Context, ids []string) (map[string]model.ParticipantSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.ParticipantSummary), args.Error(1)
}

type MockChatStore struct {
	mock.Mock
}

func (m *MockChatStore) AppendMessage(ctx context.Context, chatID string, low string, high string, msg model.Message) error {
	args := m.Called(ctx, chatID, low, high, msg)
	return args.Error(0)
}

func (m *MockChatStore) ListByParticipant(ctx context.Context, userID string) ([]model.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Chat), args.Error(1)
}
