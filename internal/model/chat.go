package model

import "time"

// Chat is keyed by the canonical sorted pair of its two participants, so
// there is at most one chat per pair regardless of who messaged first.
type Chat struct {
	ID           string    `json:"id"`
	Participants [2]string `json:"participants"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is an embedded sub-document of its chat, immutable once appended.
type Message struct {
	ID     string    `json:"id"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// ParticipantSummary is the resolved view of a chat participant or post
// author. Deleted users resolve to a tombstone summary.
type ParticipantSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ChatSummary is one entry of a user's chat list: the chat with its raw
// participant IDs replaced by resolved summaries.
type ChatSummary struct {
	ID           string               `json:"id"`
	Participants []ParticipantSummary `json:"participants"`
	Messages     []Message            `json:"messages"`
}

// CanonicalPair orders two participant IDs deterministically so that
// lookup and creation are order-independent.
func CanonicalPair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}
