package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"altairis-api/internal/model"
	"altairis-api/pkg/apierror"
)

type ChatService struct {
	chats ChatStore
	users UserStore
}

func NewChatService(chats ChatStore, users UserStore) *ChatService {
	return &ChatService{chats: chats, users: users}
}

// ListChats returns every chat the subject participates in, with raw
// participant IDs resolved to summaries. A participant whose account was
// deleted resolves to a tombstone.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]model.ChatSummary, error) {
	chats, err := s.chats.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(chats)*2)
	seen := map[string]struct{}{}
	for _, chat := range chats {
		for _, id := range chat.Participants {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	summaries := map[string]model.ParticipantSummary{}
	if len(ids) > 0 {
		if summaries, err = s.users.Summaries(ctx, ids); err != nil {
			return nil, err
		}
	}

	out := make([]model.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := model.ChatSummary{
			ID:           chat.ID,
			Participants: make([]model.ParticipantSummary, 0, 2),
			Messages:     chat.Messages,
		}
		for _, id := range chat.Participants {
			if resolved, ok := summaries[id]; ok {
				summary.Participants = append(summary.Participants, resolved)
			} else {
				summary.Participants = append(summary.Participants, model.ParticipantSummary{ID: id, Name: "Deleted user"})
			}
		}
		out = append(out, summary)
	}

	return out, nil
}

// SendMessage appends a message to the chat for the canonical participant
// pair, creating the chat atomically if this is the first message between
// the two users.
func (s *ChatService) SendMessage(ctx context.Context, senderID string, recipientID string, text string) (model.Message, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" || strings.TrimSpace(text) == "" {
		return model.Message{}, apierror.BadRequest("recipient and message are required", "")
	}

	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		return model.Message{}, err
	}

	msg := model.Message{
		ID:     uuid.NewString(),
		Sender: senderID,
		Text:   text,
		Date:   time.Now().UTC(),
	}

	low, high := model.CanonicalPair(senderID, recipientID)
	if err := s.chats.AppendMessage(ctx, uuid.NewString(), low, high, msg); err != nil {
		return model.Message{}, err
	}

	slog.Info("message sent", "sender", senderID, "recipient", recipientID)
	return msg, nil
}
