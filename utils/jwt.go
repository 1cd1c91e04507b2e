package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrExpiredToken = errors.New("expired_token")
)

// Claims is what the auth middleware puts on the gin context.
type Claims struct {
	UserID   uint
	Username string
	UserType string
	JTI      string
	Kind     string // "access" or "refresh"
	Exp      time.Time
}

func jwtSecret() []byte {
	return []byte(EnvOrDefault("JWT_SECRET", "car-hire-dev-secret-change-me"))
}

func accessExpiry() time.Duration {
	if d, err := time.ParseDuration(EnvOrDefault("JWT_ACCESS_EXPIRY", "1h")); err == nil {
		return d
	}
	return time.Hour
}

func refreshExpiry() time.Duration {
	if d, err := time.ParseDuration(EnvOrDefault("JWT_REFRESH_EXPIRY", "168h")); err == nil {
		return d
	}
	return 168 * time.Hour
}

func signToken(userID uint, username, userType, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"username":  username,
		"user_type": userType,
		"kind":      kind,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateTokenPair issues an access token and a refresh token for a user.
func GenerateTokenPair(userID uint, username, userType string) (access string, refresh string, err error) {
	access, err = signToken(userID, username, userType, "access", accessExpiry())
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err = signToken(userID, username, userType, "refresh", refreshExpiry())
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return access, refresh, nil
}

// ValidateToken parses and verifies a bearer token.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mc["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	username, _ := mc["username"].(string)
	userType, _ := mc["user_type"].(string)
	kind, _ := mc["kind"].(string)
	jti, _ := mc["jti"].(string)
	exp, ok := mc["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:   uint(userID),
		Username: username,
		UserType: userType,
		JTI:      jti,
		Kind:     kind,
		Exp:      time.Unix(int64(exp), 0),
	}, nil
}
