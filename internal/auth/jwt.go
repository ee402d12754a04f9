package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates HS256 access tokens. The token ID (jti)
// carries the session ID so a token dies with its session.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a token manager.
// secret must be at least 32 characters for HS256 security.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

type Claims struct {
	UserID    int64
	SessionID string
	ExpiresAt time.Time
}

// Issue signs a token for userID bound to sessionID, valid until expiresAt.
func (m *TokenManager) Issue(userID int64, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        sessionID,
		Issuer:    m.issuer,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, expiry and issuer, and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	rc, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("invalid subject %q", rc.Subject)
	}
	if rc.ID == "" {
		return nil, fmt.Errorf("token has no session id")
	}

	return &Claims{UserID: userID, SessionID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}, nil
}
