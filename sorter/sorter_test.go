package sorter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/internal/dbtest"
	"github.com/rise-and-shine/caseflow/sorter"
)

func TestParse(t *testing.T) {
	allowed := []string{"title", "created_at"}

	tests := []struct {
		name     string
		input    string
		expected sorter.Opts
	}{
		{name: "empty", input: "", expected: nil},
		{
			name:     "single",
			input:    "title:asc",
			expected: sorter.Opts{{Field: "title", Dir: sorter.Asc}},
		},
		{
			name:  "multiple with spaces and upper case",
			input: " title : ASC , created_at:Desc",
			expected: sorter.Opts{
				{Field: "title", Dir: sorter.Asc},
				{Field: "created_at", Dir: sorter.Desc},
			},
		},
		{
			name:     "field not allowed",
			input:    "status:asc,title:desc",
			expected: sorter.Opts{{Field: "title", Dir: sorter.Desc}},
		},
		{
			name:     "bad direction",
			input:    "title:up,created_at:desc",
			expected: sorter.Opts{{Field: "created_at", Dir: sorter.Desc}},
		},
		{
			name:     "missing colon",
			input:    "title_asc,created_at:asc",
			expected: sorter.Opts{{Field: "created_at", Dir: sorter.Asc}},
		},
		{
			name:     "repeated field keeps first",
			input:    "title:desc,title:asc",
			expected: sorter.Opts{{Field: "title", Dir: sorter.Desc}},
		},
		{name: "nothing valid", input: "a:b,c", expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, sorter.Parse(tc.input, allowed...))
		})
	}
}

type row struct {
	bun.BaseModel `bun:"table:rows"`

	Title string `bun:"title"`
}

func TestApply(t *testing.T) {
	db := dbtest.NewSQLite(t)

	q := sorter.Parse("created_at:desc,title:asc", "title", "created_at").
		Apply(db.NewSelect().Model((*row)(nil)))
	assert.Contains(t, q.String(), `ORDER BY "created_at" DESC, "title" ASC`)

	q = sorter.Opts(nil).Apply(db.NewSelect().Model((*row)(nil)), sorter.Opt{Field: "title", Dir: sorter.Asc})
	assert.Contains(t, q.String(), `ORDER BY "title" ASC`)
}
