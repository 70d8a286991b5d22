package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// IsConflict reports whether err is a unique constraint violation.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsNotFound reports whether err means no rows matched.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetPgErrorDetails collects the query text and PostgreSQL diagnostics of err
// into errx details. Both parts are optional.
func GetPgErrorDetails(err error, query fmt.Stringer) errx.D {
	details := make(errx.D)
	if q := safeString(query); q != "" {
		details["query"] = strings.ReplaceAll(q, `"`, ``)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return details
	}

	details["pg.code"] = pgErr.Code
	details["pg.severity"] = pgErr.Severity
	details["pg.message"] = pgErr.Message
	details["pg.detail"] = pgErr.Detail
	details["pg.hint"] = pgErr.Hint
	details["pg.schema"] = pgErr.SchemaName
	details["pg.table"] = pgErr.TableName
	details["pg.column"] = pgErr.ColumnName
	details["pg.constraint"] = pgErr.ConstraintName

	return details
}

// safeString renders query, returning "" for nil and for bun queries whose
// String panics on incomplete models.
func safeString(query fmt.Stringer) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()

	if query == nil {
		return ""
	}
	return query.String()
}

// ConstraintName returns the violated constraint of a PostgreSQL error, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
