package store

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const tableDocuments = "documents"

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		doc_key    TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS documents_collection ON documents (collection)`,
}

// SQLite is a DocStore backed by a local SQLite database. Change
// notifications are delivered in-process only.
type SQLite struct {
	db  *stdsql.DB
	drv *entsql.Driver
	hub *hub
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at dsn, applies pragmas and
// ensures the schema exists.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := stdsql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps shared-cache in-memory databases consistent
	// and serializes writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	for _, stmt := range schemaDDL {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			drv.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	s := &SQLite{db: db, drv: drv, now: time.Now}
	s.hub = newHub(s.List)
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *stdsql.DB {
	return s.db
}

func (s *SQLite) Get(ctx context.Context, key string) (Document, error) {
	return s.get(ctx, s.drv, key)
}

func (s *SQLite) get(ctx context.Context, q dialect.ExecQuerier, key string) (Document, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data", "updated_at").
		From(entsql.Table(tableDocuments)).
		Where(entsql.EQ("doc_key", key)).
		Query()

	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return Document{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Document{}, fmt.Errorf("get %s: %w", key, err)
		}
		return Document{}, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	var (
		data    string
		updated int64
	)
	if err := rows.Scan(&data, &updated); err != nil {
		return Document{}, fmt.Errorf("scan %s: %w", key, err)
	}
	return decodeDocument(key, []byte(data), time.Unix(0, updated))
}

func (s *SQLite) Set(ctx context.Context, key string, fields map[string]any, merge bool) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	next := fields
	if merge {
		cur, err := s.get(ctx, tx, key)
		switch {
		case err == nil:
			next = mergeFields(cur.Fields, fields)
		case !errors.Is(err, ErrNotFound):
			tx.Rollback()
			return err
		}
	}

	data, err := json.Marshal(next)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("encode %s: %w", key, err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableDocuments).
		Columns("doc_key", "collection", "data", "updated_at").
		Values(key, Parent(key), string(data), s.now().UnixNano()).
		OnConflict(
			entsql.ConflictColumns("doc_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}

	s.hub.notify(Parent(key))
	return nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]Document, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("doc_key", "data", "updated_at").
		From(entsql.Table(tableDocuments)).
		Where(entsql.EQ("collection", collection)).
		OrderBy("doc_key").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			key     string
			data    string
			updated int64
		)
		if err := rows.Scan(&key, &data, &updated); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc, err := decodeDocument(key, []byte(data), time.Unix(0, updated))
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableDocuments).
		Where(entsql.EQ("doc_key", key)).
		Query()

	var res stdsql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.hub.notify(Parent(key))
	}
	return nil
}

func (s *SQLite) Subscribe(ctx context.Context, collection string, fn func([]Document)) (func(), error) {
	return s.hub.subscribe(ctx, collection, fn), nil
}

// Close cancels subscriptions and closes the database connection.
func (s *SQLite) Close() error {
	s.hub.close()
	return s.drv.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *stdsql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
