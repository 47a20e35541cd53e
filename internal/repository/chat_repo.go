package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"altairis-api/internal/model"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// AppendMessage is an atomic find-or-create keyed by the canonical sorted
// pair: the first message between two users creates the chat, later ones
// append, and two concurrent first messages cannot create two chats.
func (r *ChatRepository) AppendMessage(ctx context.Context, chatID string, low string, high string, msg model.Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chats (id, participant_low, participant_high, messages, created_at)
		 VALUES ($1, $2, $3, jsonb_build_array($4::jsonb), $5)
		 ON CONFLICT ON CONSTRAINT chats_pair_key
		 DO UPDATE SET messages = chats.messages || EXCLUDED.messages`,
		chatID, low, high, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (r *ChatRepository) ListByParticipant(ctx context.Context, userID string) ([]model.Chat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, participant_low, participant_high, messages, created_at
		 FROM chats
		 WHERE participant_low = $1 OR participant_high = $1
		 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]model.Chat, 0)
	for rows.Next() {
		var (
			c           model.Chat
			rawMessages []byte
		)
		if err := rows.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &rawMessages, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}

		c.Messages = make([]model.Message, 0)
		if len(rawMessages) > 0 {
			if err := json.Unmarshal(rawMessages, &c.Messages); err != nil {
				return nil, fmt.Errorf("unmarshal messages: %w", err)
			}
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
