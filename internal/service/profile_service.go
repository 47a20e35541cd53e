package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"altairis-api/internal/model"
	"altairis-api/internal/storage"
	"altairis-api/pkg/apierror"
)

const (
	defaultFeedLimit = 10
	avatarPrefix     = "avatars"
	postImagePrefix  = "posts"
)

// UserProfileView is the outcome of viewing another user's profile:
// exactly one of the three fields is meaningful.
type UserProfileView struct {
	SameUser   bool
	Full       *model.Profile
	Restricted *model.PublicProfile
}

type ProfileService struct {
	users   UserStore
	objects storage.ObjectStore
}

func NewProfileService(users UserStore, objects storage.ObjectStore) *ProfileService {
	return &ProfileService{users: users, objects: objects}
}

func (s *ProfileService) GetOwnProfile(ctx context.Context, userID string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	return model.Profile{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Status: user.Status,
		Posts:  user.Posts,
	}, nil
}

// GetUserProfile returns another user's profile. The viewer's own ID maps
// to the same-user sentinel; a viewer whose role grants the
// view-full-profile capability sees the unrestricted record; everyone else
// gets the projection without email.
func (s *ProfileService) GetUserProfile(ctx context.Context, targetID string, viewer *model.AuthClaims) (UserProfileView, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return UserProfileView{}, apierror.BadRequest("user id is required", "")
	}

	if viewer != nil && viewer.UserID == targetID {
		return UserProfileView{SameUser: true}, nil
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return UserProfileView{}, err
	}

	if viewer != nil && viewer.Role.Can(model.CapabilityViewFullProfile) {
		return UserProfileView{Full: &model.Profile{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Avatar: user.Avatar,
			Status: user.Status,
			Posts:  user.Posts,
		}}, nil
	}

	return UserProfileView{Restricted: &model.PublicProfile{
		ID:     user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Status: user.Status,
		Posts:  user.Posts,
	}}, nil
}

func (s *ProfileService) UpdateEmail(ctx context.Context, userID string, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apierror.BadRequest("invalid email", "")
	}

	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *ProfileService) UpdateStatus(ctx context.Context, userID string, status string) error {
	return s.users.UpdateStatus(ctx, userID, status)
}

// SetAvatar uploads the image to object storage and stores the returned
// URL on the user record.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, filename string, contentType string, body io.Reader) (string, error) {
	url, err := s.upload(ctx, avatarPrefix, filename, contentType, body)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}

	slog.Info("avatar updated", "user_id", userID)
	return url, nil
}

// CreatePost uploads the post image and appends the post to the caller's
// embedded array. An empty description is allowed; a missing image is not.
func (s *ProfileService) CreatePost(ctx context.Context, userID string, filename string, contentType string, description string, body io.Reader) (model.Post, error) {
	url, err := s.upload(ctx, postImagePrefix, filename, contentType, body)
	if err != nil {
		return model.Post{}, err
	}

	post := model.Post{
		ID:          uuid.NewString(),
		Image:       url,
		Description: description,
		Date:        time.Now().UTC(),
	}

	if err := s.users.AppendPost(ctx, userID, post); err != nil {
		return model.Post{}, err
	}

	slog.Info("post created", "user_id", userID, "post_id", post.ID)
	return post, nil
}

// DeletePost removes the post from the caller's own record only; a post ID
// belonging to someone else reports not-found.
func (s *ProfileService) DeletePost(ctx context.Context, userID string, postID string) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apierror.BadRequest("post id is required", "")
	}

	return s.users.RemovePost(ctx, userID, postID)
}

// Feed flattens every user's posts, newest first, and returns one page
// along with the pre-pagination total. The limit is not capped.
func (s *ProfileService) Feed(ctx context.Context, page int, limit int) ([]model.FeedPost, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultFeedLimit
	}

	total, err := s.users.CountPosts(ctx)
	if err != nil {
		return nil, 0, err
	}

	posts, err := s.users.FeedPage(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// DeleteAccount hard-deletes the record. Chats the user participated in
// are left in place; their participant entries resolve to tombstone
// summaries on read.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}

func (s *ProfileService) upload(ctx context.Context, prefix string, filename string, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.objects.Put(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", prefix, err)
	}
	return url, nil
}
