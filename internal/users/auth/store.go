// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository defines the persistence contract for consumer and seller accounts.
type UserRepository interface {
	/*
		Create inserts a new user and fills in the generated columns.

		Parameters:
		  - context: context.Context
		  - user: *User (ID and CreatedAt are overwritten)

		Returns:
		  - error: UniqueConstraintViolation (phone, email), NotFound (university) or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves a user by primary key.

		Returns:
		  - *User: Loaded account
		  - error: apperr.NotFound("User") or storage failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByIDAndType retrieves a user by primary key only when it has the given type.

		Returns:
		  - *User: Loaded account
		  - error: apperr.NotFound("User") or storage failures
	*/
	FindByIDAndType(context context.Context, id int64, userType UserType) (*User, error)

	// FindByPhone retrieves the user registered with a phone number.
	FindByPhone(context context.Context, phone string) (*User, error)

	// Update persists the mutable profile columns (name, email, whatsapp, image).
	Update(context context.Context, user *User) error
}

// AdminRepository defines the persistence contract for back-office accounts.
type AdminRepository interface {
	Create(context context.Context, admin *Admin) error
	FindByID(context context.Context, id int64) (*Admin, error)
	FindByEmail(context context.Context, email string) (*Admin, error)
}

// SessionRepository defines the persistence contract for login sessions.
type SessionRepository interface {
	/*
		Create stores a session row keyed by its token hash.

		Parameters:
		  - context: context.Context
		  - session: *Session (fully populated, including ID)

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash resolves the session owning a token hash.

		Returns:
		  - *Session: The stored session
		  - error: apperr.NotFound("Session") or storage failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// UpdateExpiry moves the expiry of a session.
	UpdateExpiry(context context.Context, id string, expiresAt time.Time) error

	// Delete removes a session by primary key.
	Delete(context context.Context, id string) error

	// DeleteByTokenHash removes the session owning a token hash. Missing rows are not an error.
	DeleteByTokenHash(context context.Context, tokenHash string) error
}

// OTPRepository defines the volatile storage of one-time passwords.
type OTPRepository interface {
	/*
		Set stores a code under its key for ttl.

		Parameters:
		  - context: context.Context
		  - key: string (see otpKey)
		  - code: string
		  - ttl: time.Duration
	*/
	Set(context context.Context, key, code string, ttl time.Duration) error

	/*
		Take atomically reads and deletes a code so it can be redeemed once.

		Returns:
		  - string: The stored code
		  - error: apperr.NotFound("OTP") when absent or expired
	*/
	Take(context context.Context, key string) (string, error)
}
