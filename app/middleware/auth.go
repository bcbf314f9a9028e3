package appMiddleware

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JwtSecretKey signs access tokens. Overridable via environment for
// anything that is not a local dev run.
var JwtSecretKey = secretFromEnv("JWT_SECRET_KEY", "dev-secret-key")

func secretFromEnv(name, fallback string) []byte {
	if v := os.Getenv(name); v != "" {
		return []byte(v)
	}
	return []byte(fallback)
}
