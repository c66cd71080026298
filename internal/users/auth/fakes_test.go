// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/sec"
)

// # In-memory repositories

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*Session{}}
}

func (store *memorySessions) Create(_ context.Context, session *Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *session
	store.sessions[session.ID] = &copied
	return nil
}

func (store *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, session := range store.sessions {
		if session.TokenHash == tokenHash {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (store *memorySessions) UpdateExpiry(_ context.Context, id string, expiresAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if session, ok := store.sessions[id]; ok {
		session.ExpiresAt = expiresAt
	}
	return nil
}

func (store *memorySessions) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, id)
	return nil
}

func (store *memorySessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for id, session := range store.sessions {
		if session.TokenHash == tokenHash {
			delete(store.sessions, id)
		}
	}
	return nil
}

func (store *memorySessions) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

type memoryUsers struct {
	users  map[int64]*User
	nextID int64
}

func newMemoryUsers(users ...*User) *memoryUsers {
	store := &memoryUsers{users: map[int64]*User{}, nextID: 100}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (store *memoryUsers) Create(_ context.Context, user *User) error {
	for _, existing := range store.users {
		if existing.Phone == user.Phone {
			return apperr.UniqueConstraintViolation("Phone")
		}
	}
	store.nextID++
	user.ID = store.nextID
	user.CreatedAt = time.Now()
	store.users[user.ID] = user
	return nil
}

func (store *memoryUsers) FindByID(_ context.Context, id int64) (*User, error) {
	if user, ok := store.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByIDAndType(_ context.Context, id int64, userType UserType) (*User, error) {
	if user, ok := store.users[id]; ok && user.Type == userType {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByPhone(_ context.Context, phone string) (*User, error) {
	for _, user := range store.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) Update(_ context.Context, user *User) error {
	if _, ok := store.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	store.users[user.ID] = user
	return nil
}

type memoryAdmins struct {
	admins map[int64]*Admin
}

func newMemoryAdmins(admins ...*Admin) *memoryAdmins {
	store := &memoryAdmins{admins: map[int64]*Admin{}}
	for _, admin := range admins {
		store.admins[admin.ID] = admin
	}
	return store
}

func (store *memoryAdmins) Create(_ context.Context, admin *Admin) error {
	admin.ID = int64(len(store.admins) + 1)
	store.admins[admin.ID] = admin
	return nil
}

func (store *memoryAdmins) FindByID(_ context.Context, id int64) (*Admin, error) {
	if admin, ok := store.admins[id]; ok {
		return admin, nil
	}
	return nil, apperr.NotFound("Admin")
}

func (store *memoryAdmins) FindByEmail(_ context.Context, email string) (*Admin, error) {
	for _, admin := range store.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return nil, apperr.NotFound("Admin")
}

// # Fixtures

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newTestSigner(t *testing.T) *sec.SessionTokenService {
	t.Helper()
	signer, err := sec.NewSessionTokenService(testSecret, 365*24*time.Hour)
	require.NoError(t, err)
	return signer
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

// fixedClock returns a settable clock for services with an injectable now.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	current := start
	return func() time.Time { return current }, func(step time.Duration) { current = current.Add(step) }
}

var fixedExpiry = time.Date(2027, 3, 1, 12, 0, 0, 0, time.UTC)
