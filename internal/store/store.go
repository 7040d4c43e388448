// Package store provides SQLite persistence for the game catalog, extracted
// relations and session metadata.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/gamelore/internal/model"
)

// dbtx is the query surface shared by *sql.DB and *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Querier is the query surface of both Store and Tx
type Querier interface {
	UpsertGame(ctx context.Context, g model.Game) error
	FindGames(ctx context.Context, name string) ([]model.Game, error)
	GameByID(ctx context.Context, id string) (*model.Game, error)
	ListGames(ctx context.Context) ([]model.Game, error)
	UpsertFranchise(ctx context.Context, f model.Franchise) error
	AddToFranchise(ctx context.Context, franchiseID, gameID string) error
	FranchisesOf(ctx context.Context, gameID string) ([]model.Franchise, error)

	InsertRelations(ctx context.Context, rels []model.Relation) (int, error)
	FindRelations(ctx context.Context, f RelationFilter) ([]model.Relation, error)
	RandomRelation(ctx context.Context) (*model.Relation, error)
	DeleteRelationsBySubject(ctx context.Context, subject string) (int, error)
	CountRelations(ctx context.Context) (int, error)

	GetMetadata(ctx context.Context, key string) (string, bool, error)
	SetMetadata(ctx context.Context, key, value string) error
	DeleteMetadata(ctx context.Context, key string) error
}

var (
	_ Querier = (*Store)(nil)
	_ Querier = (*Tx)(nil)
)

// queries implements every read and write; Store and Tx embed it
type queries struct {
	db dbtx
}

// Store handles SQLite persistence. Lookups that find nothing return a nil
// result and a nil error.
type Store struct {
	*queries
	db *sql.DB
}

// Tx is a store transaction with the same query methods as Store
type Tx struct {
	*queries
	tx *sql.Tx
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every connection to :memory: gets its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}

	s := &Store{queries: &queries{db: db}, db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		release_date INTEGER,
		summary TEXT NOT NULL DEFAULT '',
		story TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT -1
	);

	CREATE TABLE IF NOT EXISTS franchises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS in_franchise (
		game_id TEXT NOT NULL,
		franchise_id TEXT NOT NULL,
		PRIMARY KEY (game_id, franchise_id)
	);

	CREATE TABLE IF NOT EXISTS relations (
		subject TEXT NOT NULL,
		relation TEXT NOT NULL,
		object TEXT NOT NULL,
		original_phrase TEXT NOT NULL,
		extra TEXT NOT NULL DEFAULT '',
		game_id TEXT NOT NULL,
		franchise_id TEXT,
		PRIMARY KEY (subject, relation, object, game_id)
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_name ON games(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_relations_game ON relations(game_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a transaction. On a :memory: store the transaction holds the
// only connection, so all work must go through the Tx until it ends.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{queries: &queries{db: tx}, tx: tx}, nil
}

// Commit commits the transaction
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// escapeLike escapes LIKE wildcards; queries pair it with ESCAPE '\'
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}
