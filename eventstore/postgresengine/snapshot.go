package postgresengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

const (
	snapshotTableSuffix = "_snapshots"
	colProjectionType   = "projection_type"
	colFilterHash       = "filter_hash"
	colData             = "data"
	colCreatedAt        = "created_at"
	tableExcluded       = "excluded"

	logMsgBuildSnapshotQueryFailed = "failed to build snapshot query"
	logMsgSaveSnapshotFailed       = "saving the snapshot failed"
	logMsgLoadSnapshotFailed       = "loading the snapshot failed"
	logAttrProjectionType          = "projection_type"
	logAttrSequenceNumber          = "sequence_number"

	actionSaveSnapshot = "save snapshot"
	actionLoadSnapshot = "load snapshot"
)

// SaveSnapshot upserts the snapshot of a projection. A stored snapshot with a higher
// sequence number is kept, so concurrent queries can't move a projection backwards.
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	sqlQuery, args, buildErr := es.buildSaveSnapshotQuery(snapshot)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildSnapshotQueryFailed, buildErr)

		return errors.Join(eventstore.ErrSavingSnapshotFailed, buildErr)
	}

	if _, err := es.db.Exec(ctx, sqlQuery, args...); err != nil {
		es.logError(ctx, logMsgSaveSnapshotFailed, err, logAttrProjectionType, snapshot.ProjectionType)

		return errors.Join(eventstore.ErrSavingSnapshotFailed, err)
	}

	es.logOperation(ctx, actionSaveSnapshot,
		logAttrProjectionType, snapshot.ProjectionType,
		logAttrSequenceNumber, snapshot.SequenceNumber)

	return nil
}

// LoadSnapshot returns the snapshot of the projection built from the filter, or nil if there is none.
// Like Query, it reads from the replica under eventual consistency.
func (es *EventStore) LoadSnapshot(
	ctx context.Context,
	projectionType string,
	filter eventstore.Filter,
) (*eventstore.Snapshot, error) {

	filterHash := filter.Hash()

	sqlQuery, args, buildErr := es.buildLoadSnapshotQuery(projectionType, filterHash)
	if buildErr != nil {
		es.logError(ctx, logMsgBuildSnapshotQueryFailed, buildErr)

		return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, buildErr)
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery, args...)
	if queryErr != nil {
		es.logError(ctx, logMsgLoadSnapshotFailed, queryErr, logAttrProjectionType, projectionType)

		return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, err)
		}

		return nil, nil
	}

	snapshot := eventstore.Snapshot{
		ProjectionType: projectionType,
		FilterHash:     filterHash,
	}

	var data []byte
	if err := rows.Scan(&snapshot.SequenceNumber, &data, &snapshot.CreatedAt); err != nil {
		es.logError(ctx, logMsgScanRowFailed, err)

		return nil, errors.Join(eventstore.ErrLoadingSnapshotFailed, err)
	}

	snapshot.Data = data

	es.logOperation(ctx, actionLoadSnapshot,
		logAttrProjectionType, projectionType,
		logAttrSequenceNumber, snapshot.SequenceNumber)

	return &snapshot, nil
}

func (es *EventStore) snapshotTableName() string {
	return es.eventTableName + snapshotTableSuffix
}

func (es *EventStore) buildSaveSnapshotQuery(snapshot eventstore.Snapshot) (string, []any, error) {
	table := es.snapshotTableName()

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(table).
		Prepared(true).
		Rows(goqu.Record{
			colProjectionType: snapshot.ProjectionType,
			colFilterHash:     snapshot.FilterHash,
			colSequenceNumber: snapshot.SequenceNumber,
			colData:           goqu.L(castJsonb, string(snapshot.Data)),
			colCreatedAt:      snapshot.CreatedAt,
		}).
		OnConflict(
			goqu.DoUpdate(colProjectionType+", "+colFilterHash, goqu.Record{
				colSequenceNumber: goqu.T(tableExcluded).Col(colSequenceNumber),
				colData:           goqu.T(tableExcluded).Col(colData),
				colCreatedAt:      goqu.T(tableExcluded).Col(colCreatedAt),
			}).Where(
				goqu.T(table).Col(colSequenceNumber).Lte(goqu.T(tableExcluded).Col(colSequenceNumber)),
			),
		)

	sqlQuery, args, err := insertStmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (es *EventStore) buildLoadSnapshotQuery(projectionType, filterHash string) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.snapshotTableName()).
		Prepared(true).
		Select(colSequenceNumber, colData, colCreatedAt).
		Where(
			goqu.C(colProjectionType).Eq(projectionType),
			goqu.C(colFilterHash).Eq(filterHash),
		)

	sqlQuery, args, err := selectStmt.ToSQL()
	if err != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}
