package auth

import (
	"errors"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "moodlehack"

// Token kinds. A session token only opens the web UI, an API token only the
// JSON API.
const (
	KindSession = "session"
	KindAPI     = "api"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwtv5.RegisteredClaims
}

// UserID is the numeric subject of the token.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type Manager struct {
	secret     []byte
	sessionTTL time.Duration
	apiTTL     time.Duration
}

func NewManager(secret string, sessionTTL, apiTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		apiTTL:     apiTTL,
	}
}

// Generate signs a token of the given kind for the user.
func (m *Manager) Generate(userID int64, username, kind string) (string, time.Time, error) {
	ttl := m.apiTTL
	if kind == KindSession {
		ttl = m.sessionTTL
	}

	now := time.Now()
	expires := now.Add(ttl)
	claims := Claims{
		Username:  username,
		TokenType: kind,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expires),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse verifies tokenString and checks that it is of the expected kind.
func (m *Manager) Parse(tokenString, kind string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != kind {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
