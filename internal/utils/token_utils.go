package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken issues a signed JWT with the user ID as subject.
func GenerateAccessToken(jwtSecret string, userID string, lifetime time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GenerateRefreshToken creates an opaque refresh token of the form
// "<userID>.<random>". The user ID prefix lets the refresh endpoint locate
// the user without a token index; only the hash is stored server side.
func GenerateRefreshToken(userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return userID + "." + hex.EncodeToString(buf), nil
}

// SplitRefreshToken extracts the user ID prefix from a refresh token.
func SplitRefreshToken(token string) (userID string, ok bool) {
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return "", false
	}
	return token[:idx], true
}

// HashToken returns the hex-encoded SHA-256 digest of a token. Refresh
// tokens are stored hashed so a database leak does not leak usable tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
