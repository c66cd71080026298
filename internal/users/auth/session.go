// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	"github.com/taibuivan/sakan/internal/platform/sec"
	"github.com/taibuivan/sakan/pkg/uuid"
)

// TokenSigner wraps a random session token into the signed envelope handed to
// clients and unwraps it again.
type TokenSigner interface {
	Sign(sessionToken string) (string, error)
	Verify(tokenString string) (string, error)
}

// SessionService owns the lifecycle of login sessions.
//
// Only the SHA-256 of a signed token is stored.
type SessionService struct {
	sessionRepository SessionRepository
	signer            TokenSigner
	metrics           *metrics.Metrics
	now               func() time.Time
	generateToken     func() (string, error)
}

// NewSessionService constructs a [SessionService].
func NewSessionService(sessionRepo SessionRepository, signer TokenSigner, recorder *metrics.Metrics) *SessionService {
	return &SessionService{
		sessionRepository: sessionRepo,
		signer:            signer,
		metrics:           recorder,
		now:               time.Now,
		generateToken:     sec.GenerateSessionToken,
	}
}

// sessionTTL returns the initial lifetime of a session type.
func sessionTTL(sessionType SessionType) time.Duration {
	if sessionType == SessionAdmin {
		return AdminSessionTTL
	}
	return UserSessionTTL
}

/*
CreateSession issues a new signed token and persists its session.

Parameters:
  - context: context.Context
  - userID: int64 (admin or user id, depending on sessionType)
  - sessionType: SessionType

Returns:
  - *Session: The stored session
  - string: The signed token to hand to the client
  - error: Token generation or storage failures
*/
func (service *SessionService) CreateSession(context context.Context, userID int64, sessionType SessionType) (*Session, string, error) {
	raw, err := service.generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("session_service_generate_token_failed: %w", err)
	}

	token, err := service.signer.Sign(raw)
	if err != nil {
		return nil, "", fmt.Errorf("session_service_sign_token_failed: %w", err)
	}

	session := &Session{
		ID:        uuid.New(),
		TokenHash: sec.HashToken(token),
		UserID:    userID,
		Type:      sessionType,
		ExpiresAt: service.now().Add(sessionTTL(sessionType)),
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, "", fmt.Errorf("session_service_create_failed: %w", err)
	}

	service.metrics.RecordSessionCreated(string(sessionType))
	ctxutil.GetLogger(context).InfoContext(context, "session_created",
		slog.String("session_id", session.ID),
		slog.String("type", string(sessionType)),
		slog.Int64("user_id", userID),
	)

	return session, token, nil
}

/*
ValidateSessionToken resolves a signed token to its live session.

Description: Expired sessions are deleted on sight. Admin sessions used
within AdminRenewWindow of their expiry are extended by AdminRenewExtension.

Parameters:
  - context: context.Context
  - token: string (the signed token)

Returns:
  - *Session: The live session
  - error: apperr.InvalidToken, apperr.ExpiredToken or storage failures
*/
func (service *SessionService) ValidateSessionToken(context context.Context, token string) (*Session, error) {
	if _, err := service.signer.Verify(token); err != nil {
		return nil, apperr.InvalidToken()
	}

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidToken()
		}
		return nil, fmt.Errorf("session_service_lookup_failed: %w", err)
	}

	now := service.now()

	if session.Expired(now) {
		if err := service.sessionRepository.Delete(context, session.ID); err != nil {
			return nil, fmt.Errorf("session_service_delete_expired_failed: %w", err)
		}
		return nil, apperr.ExpiredToken()
	}

	if session.Type == SessionAdmin && !now.Before(session.ExpiresAt.Add(-AdminRenewWindow)) {
		expiresAt := now.Add(AdminRenewExtension)
		if err := service.sessionRepository.UpdateExpiry(context, session.ID, expiresAt); err != nil {
			return nil, fmt.Errorf("session_service_renew_failed: %w", err)
		}
		session.ExpiresAt = expiresAt
	}

	return session, nil
}

/*
InvalidateSession deletes the session of a signed token.

The token is hashed exactly as on creation. Unknown tokens are ignored.
*/
func (service *SessionService) InvalidateSession(context context.Context, token string) error {
	if err := service.sessionRepository.DeleteByTokenHash(context, sec.HashToken(token)); err != nil {
		return fmt.Errorf("session_service_invalidate_failed: %w", err)
	}
	return nil
}
