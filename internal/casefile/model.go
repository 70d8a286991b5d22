package casefile

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/pg"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Case struct {
	bun.BaseModel `bun:"table:cases,alias:c"`

	ID     string `bun:"id,pk"           json:"id"`
	Title  string `bun:"title,notnull"   json:"title"`
	Status Status `bun:"status,notnull"  json:"status"`
	// OpenedBy is the actor id from request metadata, if any.
	OpenedBy string `bun:"opened_by"       json:"opened_by,omitempty"`

	pg.Timestamps
}

// CreateSchema creates the cases table if it does not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	q := db.NewCreateTable().Model((*Case)(nil)).IfNotExists()
	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return nil
}

// Event is the JSON payload published on TopicCaseEvents.
type Event struct {
	Type       string    `json:"type"`
	CaseID     string    `json:"case_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
