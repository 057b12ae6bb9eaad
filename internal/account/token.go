package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The persisted session blob sits in world-readable local storage. Signing it
// means a hand-edited user id degrades to guest instead of impersonation.

var ErrNoSecret = errors.New("session secret is not set")

type sessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

func signSessionToken(userID int64, secret string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseSessionToken(tokenStr, secret string) (int64, error) {
	if secret == "" {
		return 0, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid session token")
	}

	return claims.UserID, nil
}
