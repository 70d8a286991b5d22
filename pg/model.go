package pg

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Timestamps maintains created_at and updated_at columns for the model
// embedding it.
type Timestamps struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Timestamps)(nil)

func (m *Timestamps) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		m.CreatedAt = now
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}
