package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued admin session stays valid.
const SessionTTL = 24 * time.Hour

// Config holds the single admin identity and the token-signing secret,
// supplied once at startup.
type Config struct {
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
}

// Gate validates admin credentials and issues/verifies session tokens. The
// token is the full credential: there is no server-side session store.
type Gate struct {
	cfg Config
}

func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Authenticate compares the supplied credentials against the configured admin
// identity and issues a signed session token on success. Wrong email and
// wrong password are indistinguishable to the caller.
func (g *Gate) Authenticate(email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(g.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		return "", errors.New("invalid credentials")
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.cfg.JWTSecret))
}

// Verify checks the token's signature and expiry and returns the identity it
// carries. It returns the empty string on any failure (malformed, expired,
// bad signature); callers treat that as "no session".
func (g *Gate) Verify(tokenString string) string {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return ""
	}
	return claims.Email
}
