package auth

import (
	"errors"
	"fmt"
	"time"

	"rentfleet/internal/db"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the authenticated identity carried by a bearer token.
type Claims struct {
	UserID   int64
	Username string
	Role     string
}

// GenerateToken signs an HS256 token for the user.
func GenerateToken(secret string, ttl time.Duration, user *db.User) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not set")
	}
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token signature and expiry and extracts claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)

	return &Claims{
		UserID:   int64(userID),
		Username: username,
		Role:     role,
	}, nil
}
