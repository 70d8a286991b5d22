// Package repogen provides a generic bun repository for entities of type E
// filtered by a caller-defined filter type F.
//
// Filtering, ordering and paging are left to the filter function, so one
// repository serves Get, List and Count with the same filter value.
package repogen

import (
	"context"
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/pg"
)

const (
	CodeObjectNotFound      = "OBJECT_NOT_FOUND"
	CodeMultipleRowsFound   = "MULTIPLE_ROWS_FOUND"
	CodeIncorrectRowsAffect = "INCORRECT_ROWS_AFFECTION"
)

// FilterFunc narrows q by filters. It may also add ordering and limits.
type FilterFunc[F any] func(q *bun.SelectQuery, filters F) *bun.SelectQuery

type Config[F any] struct {
	// Schema qualifies the table name. Empty leaves it unqualified.
	Schema string
	// NotFoundCode is the errx code returned by Get. Defaults to OBJECT_NOT_FOUND.
	NotFoundCode string
	// ConflictCodes maps constraint names to errx codes, e.g.
	// "cases_pkey" -> "CASE_ALREADY_EXISTS".
	ConflictCodes map[string]string
	Filter        FilterFunc[F]
}

type Repo[E any, F any] struct {
	idb bun.IDB
	cfg Config[F]
}

func New[E any, F any](idb bun.IDB, cfg Config[F]) *Repo[E, F] {
	if cfg.NotFoundCode == "" {
		cfg.NotFoundCode = CodeObjectNotFound
	}
	if cfg.Filter == nil {
		cfg.Filter = func(q *bun.SelectQuery, _ F) *bun.SelectQuery { return q }
	}
	return &Repo[E, F]{idb: idb, cfg: cfg}
}

// WithTx returns a copy of the repository running its queries on idb,
// typically a bun.Tx.
func (r *Repo[E, F]) WithTx(idb bun.IDB) *Repo[E, F] {
	return &Repo[E, F]{idb: idb, cfg: r.cfg}
}

// Get returns the single entity matching filters. No match yields
// NotFoundCode, more than one yields MULTIPLE_ROWS_FOUND.
func (r *Repo[E, F]) Get(ctx context.Context, filters F) (*E, error) {
	entities := make([]E, 0)
	q := r.selectInto(&entities, filters).Limit(2) //nolint:mnd // two rows are enough to detect duplicates

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	switch len(entities) {
	case 0:
		return nil, errx.New(
			fmt.Sprintf("no %s found", entityName[E]()),
			errx.WithCode(r.cfg.NotFoundCode),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.GetPgErrorDetails(nil, q)),
		)
	case 1:
		return &entities[0], nil
	default:
		return nil, errx.New(
			fmt.Sprintf("multiple %s found", entityName[E]()),
			errx.WithCode(CodeMultipleRowsFound),
			errx.WithDetails(pg.GetPgErrorDetails(nil, q)),
		)
	}
}

// FirstOrNil returns the first match or nil when nothing matches.
func (r *Repo[E, F]) FirstOrNil(ctx context.Context, filters F) (*E, error) {
	entities := make([]E, 0)
	q := r.selectInto(&entities, filters).Limit(1)

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if len(entities) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error here
	}
	return &entities[0], nil
}

func (r *Repo[E, F]) List(ctx context.Context, filters F) ([]E, error) {
	entities := make([]E, 0)
	q := r.selectInto(&entities, filters)

	if err := q.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return entities, nil
}

// ListWithCount returns one page of matches and the total number of matches
// ignoring limit and offset.
func (r *Repo[E, F]) ListWithCount(ctx context.Context, filters F) ([]E, int, error) {
	entities := make([]E, 0)
	q := r.selectInto(&entities, filters)

	if err := q.Scan(ctx); err != nil {
		return nil, 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return entities, count, nil
}

func (r *Repo[E, F]) Count(ctx context.Context, filters F) (int, error) {
	q := r.selectInto((*E)(nil), filters)

	count, err := q.Count(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return count, nil
}

func (r *Repo[E, F]) Exists(ctx context.Context, filters F) (bool, error) {
	q := r.selectInto((*E)(nil), filters)

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return exists, nil
}

func (r *Repo[E, F]) selectInto(model any, filters F) *bun.SelectQuery {
	q := r.idb.NewSelect().Model(model)
	if r.cfg.Schema != "" {
		table := q.GetModel().(bun.TableModel).Table() //nolint:errcheck // models are always tables here
		q = q.ModelTableExpr("?.? AS ?", bun.Ident(r.cfg.Schema), bun.Ident(table.Name), bun.Ident(table.Alias))
	}
	return r.cfg.Filter(q, filters)
}

func entityName[E any]() string {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
