package outbox

import (
	stdsql "database/sql"

	"github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/caseflow/observability/logger"
)

// NewSQLPublisher publishes into PostgreSQL tables managed by watermill-sql,
// one table per topic. Useful when consumers read from the same database.
func NewSQLPublisher(db *stdsql.DB, log logger.Logger) (*WatermillPublisher, error) {
	publisher, err := sql.NewPublisher(
		db,
		sql.PublisherConfig{
			SchemaAdapter:        sql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		logger.NewWatermillAdapter(log.Named("outbox.sql")),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return NewWatermillPublisher(publisher), nil
}
