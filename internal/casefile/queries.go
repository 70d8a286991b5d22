package casefile

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/pagination"
	"github.com/rise-and-shine/caseflow/sorter"
	"github.com/rise-and-shine/caseflow/val"
)

const maxPageSize = 50

type getCaseHandler struct {
	cases *caseRepo
}

func NewGetCaseHandler(db bun.IDB) command.Command[GetCase, Case] {
	return &getCaseHandler{cases: newCaseRepo(db)}
}

func (h *getCaseHandler) Execute(ctx context.Context, in GetCase) (Case, error) {
	if err := val.ValidateSchema(in); err != nil {
		return Case{}, err
	}

	c, err := h.cases.Get(ctx, caseFilter{ID: in.CaseID})
	if err != nil {
		return Case{}, err
	}
	return *c, nil
}

type listCasesHandler struct {
	cases *caseRepo
}

func NewListCasesHandler(db bun.IDB) command.Command[ListCases, CaseList] {
	return &listCasesHandler{cases: newCaseRepo(db)}
}

func (h *listCasesHandler) Execute(ctx context.Context, in ListCases) (CaseList, error) {
	if err := val.ValidateSchema(in); err != nil {
		return CaseList{}, err
	}

	page := in.Request
	page.Normalize(pagination.WithMaxPageSize(maxPageSize))

	items, total, err := h.cases.ListWithCount(ctx, caseFilter{
		Status: Status(in.Status),
		Sort:   sorter.Parse(in.Sort, SortableFields...),
		Page:   &page,
	})
	if err != nil {
		return CaseList{}, err
	}

	return pagination.NewResponse(items, int64(total), page), nil
}
