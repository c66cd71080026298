// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/pkg/locale"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

/*
TestPostgresSessionRepository_RoundTrip verifies the session queries and their arguments.
*/
func TestPostgresSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	repository := NewSessionRepository(mock)

	expiresAt := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	session := &Session{ID: "0190a0b0-0000-7000-8000-000000000001", TokenHash: "abc", UserID: 9, Type: SessionSeller, ExpiresAt: expiresAt}

	mock.ExpectExec(`INSERT INTO session`).
		WithArgs(session.ID, "abc", int64(9), "SELLER", expiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery(`SELECT id::text, token, user_id, type::text, expires_at\s+FROM session\s+WHERE token = \$1`).
		WithArgs("abc").
		WillReturnRows(mock.NewRows([]string{"id", "token", "user_id", "type", "expires_at"}).
			AddRow(session.ID, "abc", int64(9), "SELLER", expiresAt))

	mock.ExpectExec(`DELETE FROM session WHERE token = \$1`).
		WithArgs("abc").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repository.Create(ctx, session))

	found, err := repository.FindByTokenHash(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, SessionSeller, found.Type)
	assert.Equal(t, expiresAt, found.ExpiresAt)

	require.NoError(t, repository.DeleteByTokenHash(ctx, "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresSessionRepository_NotFound verifies that a missing row maps to NotFound("Session").
*/
func TestPostgresSessionRepository_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repository := NewSessionRepository(mock)

	mock.ExpectQuery(`FROM session`).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repository.FindByTokenHash(context.Background(), "missing")
	require.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Session", apperr.As(err).Info)
}

/*
TestPostgresUserRepository_Create_Constraints verifies driver errors surface as domain errors.
*/
func TestPostgresUserRepository_Create_Constraints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperr.ErrorCode
		info string
	}{
		{
			name: "duplicate_phone",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "phone"},
			code: apperr.CodeUniqueConstraintViolation,
			info: "Phone",
		},
		{
			name: "unknown_university",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (university_id)=(99) is not present in table "universities".`,
			},
			code: apperr.CodeNotFound,
			info: "University",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repository := NewUserRepository(mock)

			universityID := int64(99)
			user := &User{Type: UserConsumer, Name: locale.Text{Ar: "منى"}, Phone: "01012345678", UniversityID: &universityID}

			mock.ExpectQuery(`INSERT INTO users`).
				WithArgs("CONSUMER", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					"01012345678", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(tt.err)

			err := repository.Create(context.Background(), user)
			require.True(t, apperr.HasCode(err, tt.code))
			assert.Equal(t, tt.info, apperr.As(err).Info)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

/*
TestPostgresUserRepository_Update_Missing verifies that updating a vanished user is NotFound.
*/
func TestPostgresUserRepository_Update_Missing(t *testing.T) {
	mock := newMockPool(t)
	repository := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(int64(3), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repository.Update(context.Background(), &User{ID: 3})
	assert.True(t, apperr.IsNotFound(err))
}
