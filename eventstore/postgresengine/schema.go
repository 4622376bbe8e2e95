package postgresengine

import (
	"context"
	"errors"
	"strings"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS {table} (
	sequence_number  BIGSERIAL PRIMARY KEY,
	occurred_at      TIMESTAMP WITH TIME ZONE NOT NULL,
	event_type       TEXT NOT NULL,
	payload          JSONB NOT NULL,
	metadata         JSONB NOT NULL,
	append_timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_{table}_event_type ON {table}(event_type);
CREATE INDEX IF NOT EXISTS idx_{table}_occurred_at ON {table}(occurred_at);
CREATE INDEX IF NOT EXISTS idx_{table}_payload_gin ON {table} USING gin(payload jsonb_path_ops);
CREATE INDEX IF NOT EXISTS idx_{table}_metadata_gin ON {table} USING gin(metadata jsonb_path_ops);
CREATE TABLE IF NOT EXISTS {table}_snapshots (
	projection_type  TEXT NOT NULL,
	filter_hash      TEXT NOT NULL,
	sequence_number  BIGINT NOT NULL,
	data             JSONB NOT NULL,
	created_at       TIMESTAMP WITH TIME ZONE NOT NULL,
	PRIMARY KEY (projection_type, filter_hash)
);
`

// SchemaSQL returns the DDL for the events table and its snapshots table. Running it twice is harmless.
func SchemaSQL(tableName string) []string {
	statements := make([]string, 0, 6)

	for _, statement := range strings.Split(strings.ReplaceAll(schemaTemplate, "{table}", tableName), ";") {
		if statement = strings.TrimSpace(statement); statement != "" {
			statements = append(statements, statement)
		}
	}

	return statements
}

// CreateSchema creates the events table, its indexes and the snapshots table if they don't exist.
// The table name was validated by WithTableName and is never user input.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range SchemaSQL(es.eventTableName) {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgCreateSchemaFailed, err, logAttrQuery, statement)

			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	es.logOperation(ctx, logMsgSchemaCreated, logAttrTable, es.eventTableName)

	return nil
}
