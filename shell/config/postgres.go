package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/lending-tracker-go/eventstore/postgresengine"
)

// PGXPoolConfig creates a pgxpool.Config for url with the configured pool sizing.
func (c Config) PGXPoolConfig(url string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = c.MaxConns
	dbConfig.MinConns = c.MinConns
	dbConfig.MaxConnLifetime = c.ConnMaxLifetime
	dbConfig.MaxConnIdleTime = c.ConnMaxIdleTime
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool connects to url and pings the database.
func (c Config) OpenPGXPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig(url)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// OpenSQLDB opens the primary database with the lib/pq driver and pings it.
func (c Config) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c.configureSQLPool(db)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// OpenSQLX opens the primary database through sqlx with the lib/pq driver and pings it.
func (c Config) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", c.DatabaseURL)
	if err != nil {
		return nil, err
	}

	c.configureSQLPool(db.DB)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func (c Config) configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(int(c.MaxConns))
	db.SetMaxIdleConns(int(c.MinConns))
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}

// OpenEventStore connects with the configured adapter and returns the event store and a function closing
// its connections. A replica is only used with the pgx adapter.
func (c Config) OpenEventStore(ctx context.Context, options ...postgresengine.Option) (*postgresengine.EventStore, func(), error) {
	if err := c.RequireDatabase(); err != nil {
		return nil, nil, err
	}

	options = append([]postgresengine.Option{postgresengine.WithTableName(c.TableName)}, options...)

	switch c.DBAdapter {
	case AdapterSQL:
		db, err := c.OpenSQLDB(ctx)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return es, func() { _ = db.Close() }, nil

	case AdapterSQLX:
		db, err := c.OpenSQLX(ctx)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return es, func() { _ = db.Close() }, nil
	}

	return c.openPGXEventStore(ctx, options...)
}

func (c Config) openPGXEventStore(ctx context.Context, options ...postgresengine.Option) (*postgresengine.EventStore, func(), error) {
	pool, err := c.OpenPGXPool(ctx, c.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if c.ReplicaDatabaseURL == "" {
		es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return es, pool.Close, nil
	}

	replica, err := c.OpenPGXPool(ctx, c.ReplicaDatabaseURL)
	if err != nil {
		pool.Close()
		return nil, nil, errors.Join(errors.New("connecting to replica failed"), err)
	}

	es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)
	if err != nil {
		pool.Close()
		replica.Close()
		return nil, nil, err
	}

	return es, func() { pool.Close(); replica.Close() }, nil
}
