package casefile

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/cqrs/command"
	"github.com/rise-and-shine/caseflow/meta"
	"github.com/rise-and-shine/caseflow/outbox"
	"github.com/rise-and-shine/caseflow/val"
)

type openCaseHandler struct {
	db     *bun.DB
	outbox OutboxWriter
}

func NewOpenCaseHandler(db *bun.DB, ob OutboxWriter) command.Command[OpenCase, CaseOpened] {
	return &openCaseHandler{db: db, outbox: ob}
}

func (h *openCaseHandler) Execute(ctx context.Context, in OpenCase) (CaseOpened, error) {
	if err := val.ValidateSchema(in); err != nil {
		return CaseOpened{}, err
	}

	c := &Case{
		ID:       uuid.NewString(),
		Title:    in.Title,
		Status:   StatusOpen,
		OpenedBy: meta.Find(ctx, meta.ActorID),
	}

	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := newCaseRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		return emit(ctx, tx, h.outbox, Event{Type: EventCaseOpened, CaseID: c.ID, Title: c.Title})
	})
	if err != nil {
		return CaseOpened{}, errx.Wrap(err)
	}

	return CaseOpened{CaseID: c.ID}, nil
}

type closeCaseHandler struct {
	db     *bun.DB
	outbox OutboxWriter
}

func NewCloseCaseHandler(db *bun.DB, ob OutboxWriter) command.Command[CloseCase, command.EmptyResult] {
	return &closeCaseHandler{db: db, outbox: ob}
}

func (h *closeCaseHandler) Execute(ctx context.Context, in CloseCase) (command.EmptyResult, error) {
	if err := val.ValidateSchema(in); err != nil {
		return command.EmptyResult{}, err
	}

	err := h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		cases := newCaseRepo(tx)

		c, err := cases.Get(ctx, caseFilter{ID: in.CaseID})
		if err != nil {
			return err
		}

		if c.Status == StatusClosed {
			return errx.New("case is already closed",
				errx.WithCode(CodeCaseAlreadyClosed),
				errx.WithType(errx.T_Conflict),
				errx.WithDetails(errx.D{"case_id": in.CaseID}),
			)
		}

		c.Status = StatusClosed
		if err = cases.Update(ctx, c, "status", "updated_at"); err != nil {
			return err
		}

		return emit(ctx, tx, h.outbox, Event{Type: EventCaseClosed, CaseID: c.ID})
	})

	return command.EmptyResult{}, errx.Wrap(err)
}

// emit writes evt to the outbox inside tx, keyed by case id so that all
// events of one case land on the same partition.
func emit(ctx context.Context, tx bun.Tx, ob OutboxWriter, evt Event) error {
	evt.OccurredAt = time.Now().UTC()

	msg, err := outbox.NewJSONMessage(TopicCaseEvents, evt.CaseID, evt)
	if err != nil {
		return errx.Wrap(err)
	}
	msg.Metadata["event_type"] = evt.Type
	if traceID := meta.Find(ctx, meta.TraceID); traceID != "" {
		msg.Metadata[string(meta.TraceID)] = traceID
	}
	outbox.InjectTraceContext(ctx, msg)

	return ob.Add(ctx, tx, msg)
}
