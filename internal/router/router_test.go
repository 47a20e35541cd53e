package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"altairis-api/internal/config"
	"altairis-api/internal/handler"
	"altairis-api/internal/middleware"
	"altairis-api/internal/model"
	"altairis-api/internal/service"
	"altairis-api/internal/storage"
)

type healthyDB struct{}

func (healthyDB) Health(context.Context) error { return nil }

type testEnv struct {
	server  *httptest.Server
	users   *service.MockUserStore
	chats   *service.MockChatStore
	objects *storage.MockStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := new(service.MockUserStore)
	chats := new(service.MockChatStore)
	objects := new(storage.MockStore)

	authService, err := service.NewAuthService(users, "test-access-secret", "test-refresh-secret",
		30*24*time.Hour, 7*24*time.Hour, 15*time.Minute)
	require.NoError(t, err)
	profileService := service.NewProfileService(users, objects)
	chatService := service.NewChatService(chats, users)

	cfg := &config.Config{
		CORSOrigins:    []string{"*"},
		RequestTimeout: 30 * time.Second,
		MaxUploadSize:  10 * 1024 * 1024,
	}

	r := New(cfg, middleware.NewAuthMiddleware(authService), Handlers{
		Health:  handler.NewHealthHandler(healthyDB{}),
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService, cfg.MaxUploadSize),
		Post:    handler.NewPostHandler(profileService, cfg.MaxUploadSize),
		Chat:    handler.NewChatHandler(chatService),
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, chats: chats, objects: objects}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func postJSON(t *testing.T, url string, payload any, accessToken string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func doGet(t *testing.T, url string, accessToken string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// registerUser drives POST /register and returns the created record along
// with the issued token pair.
func registerUser(t *testing.T, env *testEnv, email string) (model.User, model.TokenPair) {
	t.Helper()

	var created model.User
	env.users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == email
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(model.User)
	}).Return(nil).Once()

	resp := postJSON(t, env.server.URL+"/register", map[string]string{
		"name": "Ann", "email": email, "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeEnvelope(t, resp)
	require.True(t, parsed.Success)

	var tokens model.TokenPair
	require.NoError(t, json.Unmarshal(parsed.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	return created, tokens
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := doGet(t, env.server.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeEnvelope(t, resp)
	assert.True(t, parsed.Success)
	assert.Contains(t, string(parsed.Data), `"ok"`)
}

func TestRegisterAndProfileFlow(t *testing.T) {
	env := newTestEnv(t)
	created, tokens := registerUser(t, env, "ann@example.com")

	env.users.On("FindByID", mock.Anything, created.ID).Return(created, nil).Once()

	resp := doGet(t, env.server.URL+"/profile", tokens.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeEnvelope(t, resp)
	var data struct {
		User model.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.Equal(t, "ann@example.com", data.User.Email)

	// No bearer token at all.
	unauth := doGet(t, env.server.URL+"/profile", "")
	defer unauth.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, unauth.StatusCode)

	// A tampered token is rejected with 403, not 401.
	bad := doGet(t, env.server.URL+"/profile", tokens.AccessToken+"x")
	defer bad.Body.Close()
	assert.Equal(t, http.StatusForbidden, bad.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.users.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailTaken).Once()

	resp := postJSON(t, env.server.URL+"/register", map[string]string{
		"name": "Ann", "email": "taken@example.com", "password": "hunter22",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	parsed := decodeEnvelope(t, resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, "EMAIL_IN_USE", parsed.Error.Code)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	_, tokens := registerUser(t, env, "ann@example.com")

	t.Run("valid refresh mints a new access token", func(t *testing.T) {
		resp := postJSON(t, env.server.URL+"/refresh-token", map[string]string{
			"refreshToken": tokens.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeEnvelope(t, resp)
		var data struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(parsed.Data, &data))
		assert.NotEmpty(t, data.AccessToken)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		resp := postJSON(t, env.server.URL+"/refresh-token", map[string]string{}, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		resp := postJSON(t, env.server.URL+"/refresh-token", map[string]string{
			"refreshToken": "not-a-jwt",
		}, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestFeedEndpoint(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	env.users.On("CountPosts", mock.Anything).Return(3, nil).Once()
	env.users.On("FeedPage", mock.Anything, 0, 2).Return([]model.FeedPost{
		{Post: model.Post{ID: "p3", Date: now}},
		{Post: model.Post{ID: "p2", Date: now.Add(-time.Hour)}},
	}, nil).Once()

	resp := doGet(t, env.server.URL+"/posts?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeEnvelope(t, resp)
	var data struct {
		Posts []model.FeedPost `json:"posts"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.Equal(t, 3, data.Total)
	require.Len(t, data.Posts, 2)
	assert.Equal(t, "p3", data.Posts[0].ID)
}

func TestUserProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	created, tokens := registerUser(t, env, "ann@example.com")

	t.Run("viewing yourself returns the same-user sentinel", func(t *testing.T) {
		resp := doGet(t, env.server.URL+"/user-profile/"+created.ID, tokens.AccessToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeEnvelope(t, resp)
		var data struct {
			SameUser bool `json:"sameUser"`
		}
		require.NoError(t, json.Unmarshal(parsed.Data, &data))
		assert.True(t, data.SameUser)
	})

	t.Run("anonymous viewer gets the restricted projection", func(t *testing.T) {
		env.users.On("FindByID", mock.Anything, "someone-else").Return(model.User{
			ID: "someone-else", Name: "Bob", Email: "bob@example.com", Posts: []model.Post{},
		}, nil).Once()

		resp := doGet(t, env.server.URL+"/user-profile/someone-else", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeEnvelope(t, resp)
		assert.NotContains(t, string(parsed.Data), "bob@example.com")
	})
}

func TestSendMessageEndpoint(t *testing.T) {
	env := newTestEnv(t)
	created, tokens := registerUser(t, env, "ann@example.com")

	t.Run("requires auth", func(t *testing.T) {
		resp := postJSON(t, env.server.URL+"/send-message", map[string]string{
			"userId": "bob", "message": "hi",
		}, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing message is 400", func(t *testing.T) {
		resp := postJSON(t, env.server.URL+"/send-message", map[string]string{
			"userId": "bob",
		}, tokens.AccessToken)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delivers to the canonical pair", func(t *testing.T) {
		env.users.On("FindByID", mock.Anything, "bob").Return(model.User{ID: "bob"}, nil).Once()

		low, high := model.CanonicalPair(created.ID, "bob")
		env.chats.On("AppendMessage", mock.Anything, mock.Anything, low, high, mock.MatchedBy(func(m model.Message) bool {
			return m.Sender == created.ID && m.Text == "hi"
		})).Return(nil).Once()

		resp := postJSON(t, env.server.URL+"/send-message", map[string]string{
			"userId": "bob", "message": "hi",
		}, tokens.AccessToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeEnvelope(t, resp)
		var data struct {
			Message model.Message `json:"message"`
		}
		require.NoError(t, json.Unmarshal(parsed.Data, &data))
		assert.Equal(t, "hi", data.Message.Text)

		env.chats.AssertExpectations(t)
	})
}

func TestDeletePostEndpoint(t *testing.T) {
	env := newTestEnv(t)
	created, tokens := registerUser(t, env, "ann@example.com")

	t.Run("missing post reports not found", func(t *testing.T) {
		env.users.On("RemovePost", mock.Anything, created.ID, "nope").Return(model.ErrPostNotFound).Once()

		req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/delete-post", bytes.NewReader([]byte(`{"id":"nope"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
