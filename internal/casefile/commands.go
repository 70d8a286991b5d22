// Package casefile manages support cases. Every state change is stored
// together with an outbox message in one transaction.
package casefile

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/cqrs/dispatch"
	"github.com/rise-and-shine/caseflow/outbox"
	"github.com/rise-and-shine/caseflow/pagination"
)

const (
	TopicCaseEvents = "case.events"

	EventCaseOpened = "case.opened"
	EventCaseClosed = "case.closed"
)

const (
	CodeCaseNotFound      = "CASE_NOT_FOUND"
	CodeCaseAlreadyClosed = "CASE_ALREADY_CLOSED"
	CodeCaseAlreadyExists = "CASE_ALREADY_EXISTS"
)

type OpenCase struct {
	Title string `json:"title" validate:"required,max=200"`
}

type CaseOpened struct {
	CaseID string `json:"case_id"`
}

type CloseCase struct {
	CaseID string `json:"case_id" params:"id" validate:"required,uuid"`
}

type GetCase struct {
	CaseID string `json:"case_id" params:"id" validate:"required,uuid"`
}

// ListCases returns one page of cases, newest first unless Sort says
// otherwise. Sort uses "field:dir" pairs over SortableFields.
type ListCases struct {
	Status string `json:"status,omitempty" query:"status" validate:"omitempty,oneof=open closed"`
	Sort   string `json:"sort,omitempty"   query:"sort"`

	pagination.Request
}

type CaseList = pagination.Response[Case]

// OutboxWriter adds a message within the caller's transaction.
type OutboxWriter interface {
	Add(ctx context.Context, idb bun.IDB, msg *outbox.Message) error
}

// RegisterHandlers registers every casefile command with d.
func RegisterHandlers(d *dispatch.Dispatcher, db *bun.DB, ob OutboxWriter) error {
	if err := dispatch.Register[OpenCase, CaseOpened](d, NewOpenCaseHandler(db, ob)); err != nil {
		return err
	}
	if err := dispatch.Register[CloseCase, command.EmptyResult](d, NewCloseCaseHandler(db, ob)); err != nil {
		return err
	}
	if err := dispatch.Register[GetCase, Case](d, NewGetCaseHandler(db)); err != nil {
		return err
	}
	return dispatch.Register[ListCases, CaseList](d, NewListCasesHandler(db))
}
