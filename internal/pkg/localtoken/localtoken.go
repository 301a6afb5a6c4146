// Package localtoken mints and verifies the kiosk agent's own short-lived
// session tokens. These never leave the machine: a supervisor unlocks the
// kiosk with a PIN and receives a token that gates the destructive local
// endpoints (queue flush, deactivation) for a few minutes.
package localtoken

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateSupervisorToken(kioskID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type tokenService struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
}

func NewService(secret string, ttl time.Duration) Service {
	return &tokenService{
		tokenAuth: jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		ttl:       ttl,
	}
}

func (s *tokenService) JWTAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

func (s *tokenService) GenerateSupervisorToken(kioskID string) (string, int64, error) {
	expiresAt := time.Now().Add(s.ttl).Unix()
	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"kiosk_id": kioskID,
		"type":     "supervisor",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}
