package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Status       string    `json:"status"`
	Role         Role      `json:"role"`
	Posts        []Post    `json:"posts"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Post is an embedded sub-document owned by its user. It is append-only:
// created in one piece, removed by ID, never mutated in place.
type Post struct {
	ID          string    `json:"id"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// Profile is the owner's view of their record. The password hash never
// leaves the repository layer.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
	Posts  []Post `json:"posts"`
}

// PublicProfile is what other users see: no email. Viewers holding the
// view-full-profile capability receive a Profile instead.
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
	Posts  []Post `json:"posts"`
}

// FeedPost is one entry of the global feed: a post flattened out of its
// owner's record together with a summary of the author.
type FeedPost struct {
	Post
	Author ParticipantSummary `json:"author"`
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Role    Role   `json:"role,omitempty"`
	TokenID string `json:"jti"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
