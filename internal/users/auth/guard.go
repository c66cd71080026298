// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/constants"
	"github.com/taibuivan/sakan/internal/platform/ctxkey"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/sakan/internal/platform/request"
	"github.com/taibuivan/sakan/internal/platform/respond"
)

// Principal is the authenticated caller of a request. Exactly one of Admin
// and User is set, matching Kind.
type Principal struct {
	Session *Session
	Kind    SessionType
	Admin   *Admin
	User    *User
}

// ID returns the admin or user id behind the principal.
func (principal *Principal) ID() int64 {
	if principal.Admin != nil {
		return principal.Admin.ID
	}
	return principal.User.ID
}

// IsAdmin reports whether the principal is a back-office account.
func (principal *Principal) IsAdmin() bool {
	return principal.Kind == SessionAdmin
}

// WithPrincipal stores a principal in the context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// PrincipalFrom returns the principal attached by [Guard.Authenticate].
func PrincipalFrom(ctx context.Context) (*Principal, error) {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	if !ok || principal == nil {
		return nil, apperr.NoToken()
	}
	return principal, nil
}

// Guard protects routes by resolving the request token to a [Principal].
type Guard struct {
	sessions        *SessionService
	userRepository  UserRepository
	adminRepository AdminRepository
}

// NewGuard constructs a [Guard].
func NewGuard(sessions *SessionService, userRepo UserRepository, adminRepo AdminRepository) *Guard {
	return &Guard{sessions: sessions, userRepository: userRepo, adminRepository: adminRepo}
}

// extractToken prefers the bearer header and falls back to the session cookie.
func extractToken(request *http.Request) string {
	if token := requestutil.BearerToken(request); token != "" {
		return token
	}
	return requestutil.CookieValue(request, constants.SessionCookieName)
}

/*
Resolve validates a token and loads the account its session belongs to.

Returns:
  - *Principal: The authenticated caller
  - error: NoToken, InvalidToken, ExpiredToken, Unauthorized("UnsupportedSession") or storage failures
*/
func (guard *Guard) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, apperr.NoToken()
	}

	session, err := guard.sessions.ValidateSessionToken(ctx, token)
	if err != nil {
		return nil, err
	}

	principal := &Principal{Session: session, Kind: session.Type}

	switch session.Type {
	case SessionAdmin:
		admin, err := guard.adminRepository.FindByID(ctx, session.UserID)
		if err != nil {
			return nil, ownerError(err)
		}
		principal.Admin = admin

	case SessionConsumer, SessionSeller:
		user, err := guard.userRepository.FindByIDAndType(ctx, session.UserID, UserType(session.Type))
		if err != nil {
			return nil, ownerError(err)
		}
		principal.User = user

	default:
		return nil, apperr.Unauthorized("UnsupportedSession")
	}

	return principal, nil
}

// ownerError turns a vanished session owner into an invalid token.
func ownerError(err error) error {
	if apperr.IsNotFound(err) {
		return apperr.InvalidToken()
	}
	return err
}

// Authenticate is the middleware form of [Guard.Resolve].
func (guard *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, err := guard.Resolve(request.Context(), extractToken(request))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		ctxutil.SetActor(request.Context(), fmt.Sprintf("%s:%d", principal.Kind, principal.ID()))
		next.ServeHTTP(writer, request.WithContext(WithPrincipal(request.Context(), principal)))
	})
}

// RequireKinds rejects authenticated callers whose session type is not listed.
// It must run after [Guard.Authenticate].
func RequireKinds(kinds ...SessionType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal, err := PrincipalFrom(request.Context())
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !slices.Contains(kinds, principal.Kind) {
				respond.Error(writer, request, apperr.Forbidden("This action is not allowed for "+string(principal.Kind)+" accounts"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
