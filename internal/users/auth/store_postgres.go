// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth (Postgres) implements the storage layer for identities and sessions.

# Schema Table Mapping
  - users: Consumer and seller accounts keyed by phone.
  - admins: Back-office accounts keyed by email.
  - session: Login sessions keyed by token hash.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/sakan/internal/platform/postgres"
	"github.com/taibuivan/sakan/internal/platform/database/schema"
	"github.com/taibuivan/sakan/internal/platform/dberr"
)

// # Repository Implementations

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool postgres.DB
}

// NewUserRepository creates a new Postgres implementation for user accounts.
func NewUserRepository(pool postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// PostgresAdminRepository implements [AdminRepository] using pgx.
type PostgresAdminRepository struct {
	pool postgres.DB
}

// NewAdminRepository creates a new Postgres implementation for admin accounts.
func NewAdminRepository(pool postgres.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool postgres.DB
}

// NewSessionRepository creates a new Postgres implementation for sessions.
func NewSessionRepository(pool postgres.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// # UserRepository Methods

// userSelect is the column list every user read scans through [scanUser].
var userSelect = strings.Join(schema.Users.Columns(), ", ")

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var subType *string
	var userType string
	err := row.Scan(
		&user.ID,
		&userType,
		&subType,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Image,
		&user.WhatsApp,
		&user.UniversityID,
		&user.IsDeleted,
		&user.IsPremium,
		&user.IsVerified,
		&user.IsSuspended,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Type = UserType(userType)
	if subType != nil {
		value := UserSubType(*subType)
		user.SubType = &value
	}
	return user, nil
}

func nullableSubType(subType *UserSubType) *string {
	if subType == nil {
		return nil
	}
	value := string(*subType)
	return &value
}

/*
Create inserts a new user row.

Description: The identity column and created_at default are read back into
the entity. Constraint violations are translated by [dberr.Wrap] so a
duplicate phone surfaces as UniqueConstraintViolation("Phone").

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Mapped constraint violations or storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.Users.Table,
		schema.Users.Type, schema.Users.SubType, schema.Users.Name, schema.Users.Email,
		schema.Users.Phone, schema.Users.Image, schema.Users.WhatsApp, schema.Users.UniversityID,
		schema.Users.ID, schema.Users.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		string(user.Type),
		nullableSubType(user.SubType),
		user.Name,
		user.Email,
		user.Phone,
		user.Image,
		user.WhatsApp,
		user.UniversityID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "User", "postgres_user_repo_create_failed")
	}

	return nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userSelect, schema.Users.Table, schema.Users.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

// FindByIDAndType retrieves a user record only when its type matches.
func (repository *PostgresUserRepository) FindByIDAndType(context context.Context, id int64, userType UserType) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		userSelect, schema.Users.Table, schema.Users.ID, schema.Users.Type)

	user, err := scanUser(repository.pool.QueryRow(context, query, id, string(userType)))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_user_repo_find_by_id_and_type_failed")
	}

	return user, nil
}

// FindByPhone retrieves the user registered with a phone number.
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phone string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userSelect, schema.Users.Table, schema.Users.Phone)

	user, err := scanUser(repository.pool.QueryRow(context, query, phone))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_user_repo_find_by_phone_failed")
	}

	return user, nil
}

/*
Update writes the mutable profile columns of a user.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound("User") when no row matched, mapped constraint violations otherwise
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.Users.Table,
		schema.Users.Name, schema.Users.Email, schema.Users.WhatsApp, schema.Users.Image,
		schema.Users.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.WhatsApp,
		user.Image,
	)
	if err != nil {
		return dberr.Wrap(err, "User", "postgres_user_repo_update_failed")
	}

	// If no row was affected the user vanished between lookup and update
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", "postgres_user_repo_update_failed")
	}

	return nil
}

// # AdminRepository Methods

var adminSelect = strings.Join(schema.Admins.Columns(), ", ")

func scanAdmin(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.SuperID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Create inserts a new admin. A duplicate email surfaces as a UniqueConstraintViolation.
func (repository *PostgresAdminRepository) Create(context context.Context, admin *Admin) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.Admins.Table,
		schema.Admins.SuperID, schema.Admins.Name, schema.Admins.Email, schema.Admins.Password,
		schema.Admins.ID, schema.Admins.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		admin.SuperID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
	).Scan(&admin.ID, &admin.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "Admin", "postgres_admin_repo_create_failed")
	}

	return nil
}

// FindByID retrieves an admin by primary key.
func (repository *PostgresAdminRepository) FindByID(context context.Context, id int64) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		adminSelect, schema.Admins.Table, schema.Admins.ID)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Admin", "postgres_admin_repo_find_by_id_failed")
	}

	return admin, nil
}

// FindByEmail retrieves an admin by login email.
func (repository *PostgresAdminRepository) FindByEmail(context context.Context, email string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		adminSelect, schema.Admins.Table, schema.Admins.Email)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Admin", "postgres_admin_repo_find_by_email_failed")
	}

	return admin, nil
}

// # SessionRepository Methods

/*
Create persists a session row.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.Session.Table,
		schema.Session.ID, schema.Session.Token, schema.Session.UserID,
		schema.Session.Type, schema.Session.ExpiresAt,
	)

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.TokenHash,
		session.UserID,
		string(session.Type),
		session.ExpiresAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Session", "postgres_session_repo_create_failed")
	}

	return nil
}

// FindByTokenHash resolves a session from the hash of its token.
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s::text, %s, %s, %s::text, %s
		FROM %s
		WHERE %s = $1`,
		schema.Session.ID, schema.Session.Token, schema.Session.UserID,
		schema.Session.Type, schema.Session.ExpiresAt,
		schema.Session.Table,
		schema.Session.Token,
	)

	session := &Session{}
	var sessionType string
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.TokenHash,
		&session.UserID,
		&sessionType,
		&session.ExpiresAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Session", "postgres_session_repo_find_failed")
	}

	session.Type = SessionType(sessionType)
	return session, nil
}

// UpdateExpiry moves the expiry of a session.
func (repository *PostgresSessionRepository) UpdateExpiry(context context.Context, id string, expiresAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Session.Table, schema.Session.ExpiresAt, schema.Session.ID)

	if _, err := repository.pool.Exec(context, query, id, expiresAt); err != nil {
		return dberr.Wrap(err, "Session", "postgres_session_repo_update_expiry_failed")
	}
	return nil
}

// Delete removes a session by primary key.
func (repository *PostgresSessionRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Session.Table, schema.Session.ID)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "Session", "postgres_session_repo_delete_failed")
	}
	return nil
}

// DeleteByTokenHash removes the session owning a token hash.
func (repository *PostgresSessionRepository) DeleteByTokenHash(context context.Context, tokenHash string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Session.Table, schema.Session.Token)

	if _, err := repository.pool.Exec(context, query, tokenHash); err != nil {
		return dberr.Wrap(err, "Session", "postgres_session_repo_delete_by_token_failed")
	}
	return nil
}
