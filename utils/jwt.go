package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reservas/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "reservas-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT token for a user id, email and role.
// The token expires after the specified duration.
func GenerateToken(subject, email string, roleID int, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     subject,
		"email":   email,
		"role_id": roleID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIDFromToken extracts the ID (subject) from a valid JWT token string.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}

// TokenExpiry reads the exp claim without verifying the signature. Clients
// cannot verify server tokens; this only lets them skip calls that would 401.
// ok is false when the token carries no exp claim.
func TokenExpiry(tokenString string) (expiry time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("malformed token: %w", err)
	}

	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true, nil
	case json.Number:
		v, err := exp.Int64()
		if err != nil {
			return time.Time{}, false, fmt.Errorf("malformed exp claim: %w", err)
		}
		return time.Unix(v, 0), true, nil
	case nil:
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, fmt.Errorf("unexpected exp claim type %T", exp)
	}
}
