// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/constants"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
)

type guardFixture struct {
	guard    *Guard
	sessions *SessionService
	users    *memoryUsers
	admins   *memoryAdmins
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	users := newMemoryUsers(
		&User{ID: 1, Type: UserConsumer, Phone: "01000000001"},
		&User{ID: 2, Type: UserSeller, Phone: "01000000002"},
	)
	admins := newMemoryAdmins(&Admin{ID: 1, Email: "root@sakan.app"})
	sessions := NewSessionService(newMemorySessions(), newTestSigner(t), nil)

	return &guardFixture{
		guard:    NewGuard(sessions, users, admins),
		sessions: sessions,
		users:    users,
		admins:   admins,
	}
}

// protected returns a handler chain echoing the resolved principal and actor.
func (fixture *guardFixture) protected(kinds ...SessionType) http.Handler {
	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, err := PrincipalFrom(request.Context())
		if err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"kind":  principal.Kind,
			"id":    principal.ID(),
			"actor": ctxutil.GetActor(request.Context()),
		})
	})

	var handler http.Handler = final
	if len(kinds) > 0 {
		handler = RequireKinds(kinds...)(handler)
	}
	handler = fixture.guard.Authenticate(handler)

	// Mimic the logger middleware, which installs the actor slot
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		handler.ServeHTTP(writer, request.WithContext(ctxutil.WithActorSlot(request.Context())))
	})
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) apperr.ErrorCode {
	t.Helper()
	var body struct {
		Code apperr.ErrorCode `json:"code"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body.Code
}

/*
TestGuard_TokenSources verifies bearer and cookie extraction and the missing-token error.
*/
func TestGuard_TokenSources(t *testing.T) {
	fixture := newGuardFixture(t)
	_, token, err := fixture.sessions.CreateSession(context.Background(), 2, SessionSeller)
	require.NoError(t, err)

	t.Run("bearer", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		recorder := httptest.NewRecorder()

		fixture.protected().ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "SELLER", body["kind"])
		assert.Equal(t, "SELLER:2", body["actor"])
	})

	t.Run("cookie", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
		recorder := httptest.NewRecorder()

		fixture.protected().ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		fixture.protected().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, apperr.CodeNoToken, errorCode(t, recorder))
	})
}

/*
TestGuard_Resolve covers each session type and the owner lookup failures.
*/
func TestGuard_Resolve(t *testing.T) {
	ctx := context.Background()
	fixture := newGuardFixture(t)

	tests := []struct {
		name        string
		userID      int64
		sessionType SessionType
		code        apperr.ErrorCode
	}{
		{"admin", 1, SessionAdmin, 0},
		{"consumer", 1, SessionConsumer, 0},
		{"seller", 2, SessionSeller, 0},
		{"consumer_session_for_seller", 2, SessionConsumer, apperr.CodeInvalidToken},
		{"missing_admin", 9, SessionAdmin, apperr.CodeInvalidToken},
		{"unsupported_type", 1, SessionType("ROBOT"), apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := fixture.sessions.CreateSession(ctx, tt.userID, tt.sessionType)
			require.NoError(t, err)

			principal, err := fixture.guard.Resolve(ctx, token)
			if tt.code != 0 {
				assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sessionType, principal.Kind)
			assert.Equal(t, tt.userID, principal.ID())
			assert.Equal(t, tt.sessionType == SessionAdmin, principal.IsAdmin())
		})
	}
}

/*
TestRequireKinds verifies that listed kinds pass and others are forbidden.
*/
func TestRequireKinds(t *testing.T) {
	fixture := newGuardFixture(t)
	_, adminToken, err := fixture.sessions.CreateSession(context.Background(), 1, SessionAdmin)
	require.NoError(t, err)
	_, sellerToken, err := fixture.sessions.CreateSession(context.Background(), 2, SessionSeller)
	require.NoError(t, err)

	handler := fixture.protected(SessionConsumer, SessionSeller)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+sellerToken)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+adminToken)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, apperr.CodeForbidden, errorCode(t, recorder))
}

/*
TestSessionCookies verifies the attributes of the set and delete cookies.
*/
func TestSessionCookies(t *testing.T) {
	session := &Session{ExpiresAt: fixedExpiry}

	recorder := httptest.NewRecorder()
	SetSessionCookie(recorder, session, "signed-token", true)
	cookie := recorder.Result().Cookies()[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.Expires.Equal(fixedExpiry))

	recorder = httptest.NewRecorder()
	DeleteSessionCookie(recorder, false)
	cookie = recorder.Result().Cookies()[0]
	assert.Equal(t, -1, cookie.MaxAge)
	assert.False(t, cookie.Secure)
}
