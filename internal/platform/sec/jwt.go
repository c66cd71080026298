// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, random
// token and OTP generation) from the domain logic. The session service in
// internal/users/auth consumes it through the [SessionTokenService] type.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature, format or expiry checks.
var ErrInvalidToken = errors.New("sec: invalid session token")

// SessionClaims is the payload of the signed session token envelope.
//
// The random session token travels inside the JWT so that tampered or
// foreign tokens are rejected before any database lookup.
type SessionClaims struct {
	jwt.RegisteredClaims

	SessionToken string `json:"sessionToken"`
}

// SessionTokenService signs and verifies session envelopes using HS256.
type SessionTokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewSessionTokenService creates a new SessionTokenService.
func NewSessionTokenService(secret string, expiresIn time.Duration) (*SessionTokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: jwt secret must not be empty")
	}
	if expiresIn <= 0 {
		return nil, fmt.Errorf("sec: jwt lifetime must be positive, got %s", expiresIn)
	}

	return &SessionTokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}, nil
}

// Sign wraps a raw session token into a signed JWT with an expiry of now + expiresIn.
func (service *SessionTokenService) Sign(sessionToken string) (string, error) {
	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.expiresIn)),
		},
		SessionToken: sessionToken,
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a JWT string and returns the
// embedded session token.
func (service *SessionTokenService) Verify(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.SessionToken == "" {
		return "", ErrInvalidToken
	}

	return claims.SessionToken, nil
}
