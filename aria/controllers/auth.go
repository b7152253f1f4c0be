package controllers

import (
	"crypto/subtle"
	"errors"
	"time"

	"aria/aria/config"

	"github.com/golang-jwt/jwt/v5"
)

type AuthController struct {
	cfg config.Config
}

func NewAuthController(cfg config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

var ErrBadOperatorKey = errors.New("invalid operator key")

// IssueToken exchanges the shared operator key for a 24h bearer token used
// on the read APIs (summaries, appointments).
func (c *AuthController) IssueToken(operatorKey string) (string, error) {
	if c.cfg.OperatorKey == "" ||
		subtle.ConstantTimeCompare([]byte(operatorKey), []byte(c.cfg.OperatorKey)) != 1 {
		return "", ErrBadOperatorKey
	}
	claims := jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
