package main

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"govpass-enrollment/models"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokenCreator issues and verifies the bearer tokens that tie a
// logged-in operator to their wizard state.
type SessionTokenCreator interface {
	CreateSessionToken(user models.User, sessionID string) (string, error)
	ParseSessionToken(token string) (user models.User, sessionID string, err error)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
}

const sessionTokenLifetime = 24 * time.Hour

func NewRsaSessionTokenCreator(privateKeyPath string) (*RsaSessionTokenCreator, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return &RsaSessionTokenCreator{privateKey: privateKey}, nil
}

type RsaSessionTokenCreator struct {
	privateKey *rsa.PrivateKey
}

func (c *RsaSessionTokenCreator) CreateSessionToken(user models.User, sessionID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenLifetime)),
		},
		Name:      user.Name,
		Email:     user.Email,
		SessionID: sessionID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
}

func (c *RsaSessionTokenCreator) ParseSessionToken(token string) (models.User, string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return &c.privateKey.PublicKey, nil
	})
	if err != nil {
		return models.User{}, "", fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid {
		return models.User{}, "", fmt.Errorf("invalid session token")
	}

	user := models.User{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}
	return user, claims.SessionID, nil
}
