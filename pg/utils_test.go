package pg_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/caseflow/pg"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}},
		{name: "plain error", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pg.IsConflict(tc.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, pg.IsNotFound(sql.ErrNoRows))
	assert.True(t, pg.IsNotFound(fmt.Errorf("scan: %w", sql.ErrNoRows)))
	assert.False(t, pg.IsNotFound(errors.New("other")))
	assert.False(t, pg.IsNotFound(nil))
}

func TestGetPgErrorDetails(t *testing.T) {
	t.Run("pg error", func(t *testing.T) {
		err := &pgconn.PgError{
			Code:           "23505",
			Message:        "duplicate key value",
			TableName:      "cases",
			ConstraintName: "cases_pkey",
		}

		details := pg.GetPgErrorDetails(err, stringer(`SELECT "id" FROM "cases"`))

		assert.Equal(t, "SELECT id FROM cases", details["query"])
		assert.Equal(t, "23505", details["pg.code"])
		assert.Equal(t, "cases", details["pg.table"])
		assert.Equal(t, "cases_pkey", details["pg.constraint"])
	})

	t.Run("plain error without query", func(t *testing.T) {
		details := pg.GetPgErrorDetails(errors.New("boom"), nil)

		assert.Equal(t, errx.D{}, details)
	})
}
