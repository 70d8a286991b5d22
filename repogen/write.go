package repogen

import (
	"context"
	"fmt"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/pg"
)

func (r *Repo[E, F]) Create(ctx context.Context, entity *E) error {
	q := r.idb.NewInsert().Model(entity)
	if r.cfg.Schema != "" {
		q = q.ModelTableExpr("?.?", bun.Ident(r.cfg.Schema), bun.Ident(tableName(q.GetModel())))
	}

	if _, err := q.Exec(ctx); err != nil {
		return r.writeErr(err, q, "creating")
	}
	return nil
}

// Update writes entity by primary key. With columns set only those columns
// are written. Updating a missing row fails with INCORRECT_ROWS_AFFECTION.
func (r *Repo[E, F]) Update(ctx context.Context, entity *E, columns ...string) error {
	q := r.idb.NewUpdate().Model(entity).WherePK()
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	if r.cfg.Schema != "" {
		q = q.ModelTableExpr("?.? AS ?", bun.Ident(r.cfg.Schema), bun.Ident(tableName(q.GetModel())), bun.Ident(tableAlias(q.GetModel())))
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return r.writeErr(err, q, "updating")
	}
	return r.checkAffected(result, q, "update")
}

func (r *Repo[E, F]) Delete(ctx context.Context, entity *E) error {
	q := r.idb.NewDelete().Model(entity).WherePK()
	if r.cfg.Schema != "" {
		q = q.ModelTableExpr("?.? AS ?", bun.Ident(r.cfg.Schema), bun.Ident(tableName(q.GetModel())), bun.Ident(tableAlias(q.GetModel())))
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return r.checkAffected(result, q, "delete")
}

func (r *Repo[E, F]) writeErr(err error, q fmt.Stringer, action string) error {
	if code, ok := r.cfg.ConflictCodes[pg.ConstraintName(err)]; ok {
		return errx.New(
			fmt.Sprintf("conflict while %s %s", action, entityName[E]()),
			errx.WithCode(code),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(pg.GetPgErrorDetails(err, q)),
		)
	}
	return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func (r *Repo[E, F]) checkAffected(result rowsAffecter, q fmt.Stringer, action string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if n == 0 {
		return errx.New(
			fmt.Sprintf("no %s found to %s", entityName[E](), action),
			errx.WithCode(CodeIncorrectRowsAffect),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(pg.GetPgErrorDetails(nil, q)),
		)
	}
	return nil
}

func tableName(m bun.Model) string {
	return m.(bun.TableModel).Table().Name //nolint:errcheck // models are always tables here
}

func tableAlias(m bun.Model) string {
	return m.(bun.TableModel).Table().Alias //nolint:errcheck // models are always tables here
}
