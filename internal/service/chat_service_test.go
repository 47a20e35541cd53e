package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"altairis-api/internal/model"
	"altairis-api/pkg/apierror"
)

func TestChatService_SendMessage(t *testing.T) {
	t.Run("missing recipient or text", func(t *testing.T) {
		svc := NewChatService(new(MockChatStore), new(MockUserStore))

		var apiErr *apierror.APIError
		_, err := svc.SendMessage(context.Background(), "a", "", "hi")
		require.ErrorAs(t, err, &apiErr)

		_, err = svc.SendMessage(context.Background(), "a", "b", "   ")
		require.ErrorAs(t, err, &apiErr)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		chats := new(MockChatStore)
		users := new(MockUserStore)
		svc := NewChatService(chats, users)
		users.On("FindByID", mock.Anything, "ghost").Return(model.User{}, model.ErrUserNotFound).Once()

		_, err := svc.SendMessage(context.Background(), "a", "ghost", "hi")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
		chats.AssertNotCalled(t, "AppendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("both directions hit the same canonical pair", func(t *testing.T) {
		chats := new(MockChatStore)
		users := new(MockUserStore)
		svc := NewChatService(chats, users)

		users.On("FindByID", mock.Anything, mock.Anything).Return(model.User{ID: "x"}, nil)
		chats.On("AppendMessage", mock.Anything, mock.Anything, "alice", "bob", mock.MatchedBy(func(m model.Message) bool {
			return m.Sender == "bob" && m.Text == "hi"
		})).Return(nil).Once()
		chats.On("AppendMessage", mock.Anything, mock.Anything, "alice", "bob", mock.MatchedBy(func(m model.Message) bool {
			return m.Sender == "alice" && m.Text == "yo"
		})).Return(nil).Once()

		msg, err := svc.SendMessage(context.Background(), "bob", "alice", "hi")
		require.NoError(t, err)
		assert.Equal(t, "bob", msg.Sender)
		assert.NotEmpty(t, msg.ID)
		assert.WithinDuration(t, time.Now().UTC(), msg.Date, time.Minute)

		_, err = svc.SendMessage(context.Background(), "alice", "bob", "yo")
		require.NoError(t, err)

		chats.AssertExpectations(t)
	})
}

func TestChatService_ListChats(t *testing.T) {
	t.Run("resolves participant summaries", func(t *testing.T) {
		chats := new(MockChatStore)
		users := new(MockUserStore)
		svc := NewChatService(chats, users)

		chats.On("ListByParticipant", mock.Anything, "alice").Return([]model.Chat{{
			ID:           "c1",
			Participants: [2]string{"alice", "bob"},
			Messages:     []model.Message{{ID: "m1", Sender: "bob", Text: "hi"}},
		}}, nil).Once()
		users.On("Summaries", mock.Anything, []string{"alice", "bob"}).Return(map[string]model.ParticipantSummary{
			"alice": {ID: "alice", Name: "Alice", Avatar: "http://img/a.png"},
			"bob":   {ID: "bob", Name: "Bob", Avatar: "http://img/b.png"},
		}, nil).Once()

		out, err := svc.ListChats(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.Len(t, out[0].Participants, 2)
		assert.Equal(t, "Alice", out[0].Participants[0].Name)
		assert.Equal(t, "Bob", out[0].Participants[1].Name)
		require.Len(t, out[0].Messages, 1)
	})

	t.Run("deleted participant becomes a tombstone", func(t *testing.T) {
		chats := new(MockChatStore)
		users := new(MockUserStore)
		svc := NewChatService(chats, users)

		chats.On("ListByParticipant", mock.Anything, "alice").Return([]model.Chat{{
			ID:           "c1",
			Participants: [2]string{"alice", "gone"},
		}}, nil).Once()
		users.On("Summaries", mock.Anything, []string{"alice", "gone"}).Return(map[string]model.ParticipantSummary{
			"alice": {ID: "alice", Name: "Alice"},
		}, nil).Once()

		out, err := svc.ListChats(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Deleted user", out[0].Participants[1].Name)
		assert.Equal(t, "gone", out[0].Participants[1].ID)
	})

	t.Run("no chats", func(t *testing.T) {
		chats := new(MockChatStore)
		users := new(MockUserStore)
		svc := NewChatService(chats, users)

		chats.On("ListByParticipant", mock.Anything, "alice").Return([]model.Chat{}, nil).Once()

		out, err := svc.ListChats(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, out)
		users.AssertNotCalled(t, "Summaries", mock.Anything, mock.Anything)
	})
}
