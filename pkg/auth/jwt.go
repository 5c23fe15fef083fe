package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds signing settings.
type JWTConfig struct {
	Secret     string
	ExpireTime time.Duration
}

var defaultConfig = &JWTConfig{
	Secret:     "newshub-dev-secret",
	ExpireTime: 24 * time.Hour,
}

// Init overrides the package signing secret from configuration.
func Init(secret string) {
	if secret != "" {
		defaultConfig.Secret = secret
	}
}

// Claims carries the identity encoded in access tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token for the given user.
func GenerateToken(userID int64, username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(defaultConfig.ExpireTime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(defaultConfig.Secret))
}

// ParseToken validates the token signature and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(defaultConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// ValidateToken reports whether the token is well formed and signed.
func ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	_, err := ParseToken(token)
	return err == nil
}
