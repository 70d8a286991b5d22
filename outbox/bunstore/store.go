// Package bunstore stores outbox messages in a relational table through bun.
package bunstore

import (
	"context"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/caseflow/outbox"
	"github.com/rise-and-shine/caseflow/pg"
)

const statusSeqIndex = "outbox_messages_status_seq_idx"

var _ outbox.Store = (*Store)(nil)

type Store struct {
	db bun.IDB
}

func New(db bun.IDB) *Store {
	return &Store{db: db}
}

// CreateSchema creates the outbox table and its polling index if missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	q := s.db.NewCreateTable().Model((*outbox.Message)(nil)).IfNotExists()
	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	iq := s.db.NewCreateIndex().
		Model((*outbox.Message)(nil)).
		Index(statusSeqIndex).
		Column("status", "seq").
		IfNotExists()
	if _, err := iq.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, nil)))
	}

	return nil
}

// Add inserts msg using idb, which should be the transaction carrying the
// business change. A nil idb uses the store's own connection.
func (s *Store) Add(ctx context.Context, idb bun.IDB, msg *outbox.Message) error {
	if idb == nil {
		idb = s.db
	}
	if msg.Status == "" {
		msg.Status = outbox.StatusPending
	}

	q := idb.NewInsert().Model(msg)
	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return nil
}

// FindOldestPending returns the pending message with the lowest sequence
// number, or nil if there is none.
//
// The read takes no row lock, so concurrent relays may both see the same row.
func (s *Store) FindOldestPending(ctx context.Context) (*outbox.Message, error) {
	msg := new(outbox.Message)

	q := s.db.NewSelect().
		Model(msg).
		Where("status = ?", outbox.StatusPending).
		Order("seq ASC").
		Limit(1)

	err := q.Scan(ctx)
	if pg.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return msg, nil
}

// Delete removes msg by id. Deleting a message that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, msg *outbox.Message) error {
	q := s.db.NewDelete().
		Model((*outbox.Message)(nil)).
		Where("id = ?", msg.ID)

	if _, err := q.Exec(ctx); err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context) (int, error) {
	q := s.db.NewSelect().
		Model((*outbox.Message)(nil)).
		Where("status = ?", outbox.StatusPending)

	n, err := q.Count(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	return n, nil
}
