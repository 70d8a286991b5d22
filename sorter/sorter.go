// Package sorter turns "field:dir" lists such as "created_at:desc,title:asc"
// into ORDER BY clauses on bun select queries.
package sorter

import (
	"slices"
	"strings"

	"github.com/uptrace/bun"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Opt struct {
	Field string
	Dir   Direction
}

type Opts []Opt

// Parse reads a comma separated sort string. Pairs with a field outside
// allowed, an unknown direction or a bad shape are skipped, and a field
// repeated later in the string is ignored.
func Parse(s string, allowed ...string) Opts {
	if s == "" {
		return nil
	}

	var opts Opts
	for pair := range strings.SplitSeq(s, ",") {
		field, dir, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}

		field = strings.TrimSpace(field)
		if !slices.Contains(allowed, field) || opts.has(field) {
			continue
		}

		d := Direction(strings.ToLower(strings.TrimSpace(dir)))
		if d != Asc && d != Desc {
			continue
		}

		opts = append(opts, Opt{Field: field, Dir: d})
	}

	return opts
}

// Apply adds the options to q in order. When o is empty the fallback
// options are used instead.
func (o Opts) Apply(q *bun.SelectQuery, fallback ...Opt) *bun.SelectQuery {
	opts := o
	if len(opts) == 0 {
		opts = fallback
	}
	for _, opt := range opts {
		q = q.OrderExpr("? "+opt.sql(), bun.Ident(opt.Field))
	}
	return q
}

func (o Opts) has(field string) bool {
	return slices.ContainsFunc(o, func(opt Opt) bool { return opt.Field == field })
}

func (o Opt) sql() string {
	if o.Dir == Desc {
		return "DESC"
	}
	return "ASC"
}
