package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"altairis-api/internal/model"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts the user row. Email uniqueness is enforced by the
// users_email_key index, not by a pre-check, so two concurrent
// registrations with the same email cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	posts, err := marshalPosts(u.Posts)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar, status, role, posts, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Avatar, u.Status, string(u.Role), posts, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx,
		`SELECT id, name, email, password_hash, avatar, status, role, posts, created_at, updated_at
		 FROM users WHERE id = $1`, id, model.ErrUserNotFound)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx,
		`SELECT id, name, email, password_hash, avatar, status, role, posts, created_at, updated_at
		 FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)), model.ErrEmailNotFound)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string, notFound error) (model.User, error) {
	var (
		u        model.User
		role     string
		rawPosts []byte
	)
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.Status, &role, &rawPosts, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, notFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}

	u.Role = model.Role(role)
	if u.Posts, err = unmarshalPosts(rawPosts); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateEmail relies on the unique index for conflict detection; there is
// no separate existence check to race against.
func (r *UserRepository) UpdateEmail(ctx context.Context, userID string, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, updated_at = now() WHERE id = $1`,
		userID, email)
	if isUniqueViolation(err) {
		return model.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, userID string, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET status = $2, updated_at = now() WHERE id = $1`,
		userID, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID string, avatarURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`,
		userID, avatarURL)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// AppendPost pushes one post onto the embedded array in a single statement.
func (r *UserRepository) AppendPost(ctx context.Context, userID string, post model.Post) error {
	raw, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET posts = posts || jsonb_build_array($2::jsonb), updated_at = now() WHERE id = $1`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("append post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// RemovePost deletes the matching embedded post from the owner's row only.
// The EXISTS guard makes a miss report not-found instead of silently
// rewriting the array.
func (r *UserRepository) RemovePost(ctx context.Context, userID string, postID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET posts = (
		     SELECT COALESCE(jsonb_agg(p), '[]'::jsonb)
		     FROM jsonb_array_elements(posts) AS p
		     WHERE p->>'id' <> $2
		 ), updated_at = now()
		 WHERE id = $1
		   AND EXISTS (
		     SELECT 1 FROM jsonb_array_elements(posts) AS p WHERE p->>'id' = $2
		   )`,
		userID, postID)
	if err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountPosts(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(jsonb_array_length(posts)), 0) FROM users`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

// FeedPage flattens every user's embedded posts, newest first, and returns
// the requested window.
func (r *UserRepository) FeedPage(ctx context.Context, offset int, limit int) ([]model.FeedPost, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.avatar,
		        p->>'id', p->>'image', p->>'description', (p->>'date')::timestamptz
		 FROM users u
		 CROSS JOIN LATERAL jsonb_array_elements(u.posts) AS p
		 ORDER BY (p->>'date')::timestamptz DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("feed page: %w", err)
	}
	defer rows.Close()

	feed := make([]model.FeedPost, 0)
	for rows.Next() {
		var fp model.FeedPost
		if err := rows.Scan(&fp.Author.ID, &fp.Author.Name, &fp.Author.Avatar,
			&fp.Post.ID, &fp.Image, &fp.Description, &fp.Date); err != nil {
			return nil, fmt.Errorf("scan feed post: %w", err)
		}
		feed = append(feed, fp)
	}
	return feed, rows.Err()
}

// Summaries resolves a set of user IDs to participant summaries. Missing
// IDs are simply absent from the result; callers decide how to render them.
func (r *UserRepository) Summaries(ctx context.Context, ids []string) (map[string]model.ParticipantSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, avatar FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("user summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.ParticipantSummary, len(ids))
	for rows.Next() {
		var s model.ParticipantSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Avatar); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func marshalPosts(posts []model.Post) ([]byte, error) {
	if posts == nil {
		posts = []model.Post{}
	}
	raw, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("marshal posts: %w", err)
	}
	return raw, nil
}

func unmarshalPosts(raw []byte) ([]model.Post, error) {
	posts := make([]model.Post, 0)
	if len(raw) == 0 {
		return posts, nil
	}
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("unmarshal posts: %w", err)
	}
	return posts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
