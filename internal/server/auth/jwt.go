// Package auth verifies bearer tokens carried on draw events and maps them
// to the binary authorization level the sync core cares about. Session
// issuance lives in the account service; only HS256 verification happens
// here.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/drawboard/internal/common"
)

// Level is the authorization level of one connection.
type Level int

const (
	LevelGuest Level = iota
	LevelAuthenticated
)

func (l Level) String() string {
	if l == LevelAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// Claims carries the standard claims plus the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken signs an HS256 token for the given user id.
func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
	})
	return token.SignedString(secretKey)
}

// UserIDFromToken validates the token and returns the embedded user id.
func UserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// LevelFromToken maps an optional token to an authorization level. A missing
// or unverifiable token means guest; there is no error path because guest is
// the fail-closed default.
func LevelFromToken(tokenString string, secretKey []byte) (Level, string) {
	if tokenString == "" {
		return LevelGuest, ""
	}
	userID, err := UserIDFromToken(tokenString, secretKey)
	if err != nil {
		return LevelGuest, ""
	}
	return LevelAuthenticated, userID
}
