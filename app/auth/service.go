package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/moodlehack/app/database"
	"github.com/lysyi3m/moodlehack/app/model"
)

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const userKey = "auth.user"

type Service struct {
	users  database.UserRepository
	tokens *Manager
}

func NewService(users database.UserRepository, tokens *Manager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Authenticate checks a username/password pair against active accounts.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a token of the given kind.
func (s *Service) Login(ctx context.Context, username, password, kind string) (string, *model.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, _, err := s.tokens.Generate(user.ID, user.Username, kind)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID, "kind", kind)
	return token, user, nil
}

// Resolve returns the active user a token of the given kind belongs to.
func (s *Service) Resolve(ctx context.Context, token, kind string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Parse(token, kind)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// CreateUser stores a new active account.
func (s *Service) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: hash, IsActive: true}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %q already exists", username)
		}
		return nil, err
	}
	return user, nil
}

// APIToken extracts an API token from "Authorization: Token <t>",
// "Authorization: Bearer <t>" or the token query parameter.
func APIToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && (strings.EqualFold(parts[0], "Token") || strings.EqualFold(parts[0], "Bearer")) {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func SetUser(c *gin.Context, user *model.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the user attached by an authentication middleware.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
