// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Mapping
//
//   - no rows              → NotFound(<entity>)
//   - unique_violation     → UniqueConstraintViolation(<constraint as entity>)
//   - foreign_key_violation → NotFound(<referenced table as entity>)
//   - anything else        → Internal (cause kept for logging)
package dberr

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/sakan/internal/platform/apperr"
)

// referencedTable extracts the table name from a foreign-key violation detail,
// e.g. `Key (university_id)=(9) is not present in table "universities".`
var referencedTable = regexp.MustCompile(`table\s"([^"]+)"`)

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// entity names the row being looked up and is only used for the no-rows case.
// action describes the failed operation and is kept in the Internal cause.
func Wrap(err error, entity, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}

	// 2. Constraint violations carry a SQLSTATE
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.UniqueConstraintViolation(EntityName(pgError.ConstraintName))

		case pgerrcode.ForeignKeyViolation:
			table := ""
			if match := referencedTable.FindStringSubmatch(pgError.Detail); len(match) == 2 {
				table = match[1]
			}
			return apperr.NotFound(EntityName(table))
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// EntityName turns a table or constraint identifier into a client-facing
// entity name: singular, first letter upper-cased ("universities" → "University").
func EntityName(identifier string) string {
	if identifier == "" {
		return ""
	}
	return cases.Title(language.English).String(inflection.Singular(identifier))
}
