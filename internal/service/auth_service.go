package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"altairis-api/internal/model"
	"altairis-api/pkg/apierror"
)

const bcryptCost = 10

// AuthService owns registration, login, and the two-token session
// lifecycle. Access and refresh tokens are signed with disjoint secrets so
// a leaked access secret cannot mint refresh tokens.
type AuthService struct {
	users         UserStore
	accessSecret  []byte
	refreshSecret []byte

	accessTTL  time.Duration
	refreshTTL time.Duration
	// refreshedAccessTTL is the expiry of access tokens minted by Refresh.
	// It intentionally differs from accessTTL; the refresh endpoint also
	// omits email and role from the claims. Both quirks are inherited
	// behavior, kept until product intent says otherwise.
	refreshedAccessTTL time.Duration
}

func NewAuthService(users UserStore, accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration, refreshedAccessTTL time.Duration) (*AuthService, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("both signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &AuthService{
		users:              users,
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTTL:          accessTTL,
		refreshTTL:         refreshTTL,
		refreshedAccessTTL: refreshedAccessTTL,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (model.TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return model.TokenPair{}, apierror.BadRequest("name, email and password are required", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Posts:        []model.Post{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.TokenPair{}, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrEmailNotFound) {
			slog.Warn("login failed", "reason", "email not found")
		}
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "reason", "invalid password", "user_id", user.ID)
		return model.TokenPair{}, model.ErrInvalidPassword
	}

	return s.issueTokens(user)
}

// Refresh verifies the refresh token and mints a new access token carrying
// only the subject. The refresh token is not rotated: it stays valid and
// reusable until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	return signToken(s.accessSecret, jwt.MapClaims{
		"sub": claims.UserID,
		"typ": "access",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.refreshedAccessTTL).Unix(),
	})
}

func (s *AuthService) VerifyAccess(tokenString string) (*model.AuthClaims, error) {
	return verifyToken(tokenString, s.accessSecret, "access")
}

func (s *AuthService) VerifyRefresh(tokenString string) (*model.AuthClaims, error) {
	return verifyToken(tokenString, s.refreshSecret, "refresh")
}

func (s *AuthService) issueTokens(user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := signToken(s.accessSecret, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"typ":   "access",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := signToken(s.refreshSecret, jwt.MapClaims{
		"sub": user.ID,
		"typ": "refresh",
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func signToken(secret []byte, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func verifyToken(tokenString string, secret []byte, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenInvalid
	}

	typ, _ := claimsMap["typ"].(string)
	if typ != expectedType {
		return nil, model.ErrTokenInvalid
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)
	if role, ok := claimsMap["role"].(string); ok {
		claims.Role = model.Role(role)
	}

	if claims.UserID == "" {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}
