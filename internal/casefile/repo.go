package casefile

import (
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/pagination"
	"github.com/rise-and-shine/caseflow/repogen"
	"github.com/rise-and-shine/caseflow/sorter"
)

// SortableFields are the fields ListCases accepts in its Sort string.
//
//nolint:gochecknoglobals // read-only list
var SortableFields = []string{"created_at", "updated_at", "title", "status"}

type caseFilter struct {
	ID     string
	Status Status
	Sort   sorter.Opts
	Page   *pagination.Request
}

type caseRepo = repogen.Repo[Case, caseFilter]

func newCaseRepo(idb bun.IDB) *caseRepo {
	return repogen.New[Case](idb, repogen.Config[caseFilter]{
		NotFoundCode:  CodeCaseNotFound,
		ConflictCodes: map[string]string{"cases_pkey": CodeCaseAlreadyExists},
		Filter:        filterCases,
	})
}

func filterCases(q *bun.SelectQuery, f caseFilter) *bun.SelectQuery {
	if f.ID != "" {
		q = q.Where("c.id = ?", f.ID)
	}
	if f.Status != "" {
		q = q.Where("c.status = ?", f.Status)
	}

	q = f.Sort.Apply(q,
		sorter.Opt{Field: "created_at", Dir: sorter.Desc},
		sorter.Opt{Field: "id", Dir: sorter.Asc},
	)

	if f.Page != nil {
		q = f.Page.Apply(q)
	}
	return q
}
