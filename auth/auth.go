package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CreateToken issues a short-lived service token for callers of the chat
// proxy. The signing secret comes from the environment, never from source.
func CreateToken(subject string) (string, error) {
	secretKeyStr := os.Getenv("PROXY_JWT_SECRET")
	if secretKeyStr == "" {
		return "", fmt.Errorf("auth: PROXY_JWT_SECRET not set")
	}

	secretKey := []byte(secretKeyStr)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub": subject,
			"exp": time.Now().Add(time.Hour * 24).Unix(),
		})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifyToken(tokenString string) error {
	secretKeyStr := os.Getenv("PROXY_JWT_SECRET")
	if secretKeyStr == "" {
		return fmt.Errorf("auth: PROXY_JWT_SECRET not set")
	}

	secretKey := []byte(secretKeyStr)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})

	if err != nil {
		return err
	}

	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	return nil
}

// BearerMiddleware guards the chat proxy with a bearer service token.
func BearerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := VerifyToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}
