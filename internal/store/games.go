package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ppiankov/gamelore/internal/model"
)

const gameColumns = `id, name, release_date, summary, story, rating`

// UpsertGame inserts a game or replaces the stored one with the same id
func (q *queries) UpsertGame(ctx context.Context, g model.Game) error {
	var released sql.NullInt64
	if g.ReleaseDate != nil {
		released = sql.NullInt64{Int64: g.ReleaseDate.Unix(), Valid: true}
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO games (id, name, release_date, summary, story, rating)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			release_date = excluded.release_date,
			summary = excluded.summary,
			story = excluded.story,
			rating = excluded.rating
	`, g.ID, g.Name, released, g.Summary, g.Story, g.Rating)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}
	return nil
}

// FindGames returns the games named name (case-insensitive). When none
// match exactly, games whose name contains name are returned instead.
func (q *queries) FindGames(ctx context.Context, name string) ([]model.Game, error) {
	games, err := q.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games WHERE lower(name) = lower(?) ORDER BY name, id`, name)
	if err != nil || len(games) > 0 {
		return games, err
	}

	return q.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games WHERE name LIKE ? ESCAPE '\' ORDER BY name, id`, contains(name))
}

// GameByID returns the game with id, or nil
func (q *queries) GameByID(ctx context.Context, id string) (*model.Game, error) {
	games, err := q.queryGames(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	if err != nil || len(games) == 0 {
		return nil, err
	}
	return &games[0], nil
}

// ListGames returns every game ordered by name
func (q *queries) ListGames(ctx context.Context) ([]model.Game, error) {
	return q.queryGames(ctx, `SELECT `+gameColumns+` FROM games ORDER BY name, id`)
}

func (q *queries) queryGames(ctx context.Context, query string, args ...any) ([]model.Game, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		var released sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Name, &released, &g.Summary, &g.Story, &g.Rating); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if released.Valid {
			t := time.Unix(released.Int64, 0).UTC()
			g.ReleaseDate = &t
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// UpsertFranchise inserts or renames a franchise
func (q *queries) UpsertFranchise(ctx context.Context, f model.Franchise) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO franchises (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, f.ID, f.Name)
	if err != nil {
		return fmt.Errorf("upsert franchise %s: %w", f.ID, err)
	}
	return nil
}

// AddToFranchise records that a game belongs to a franchise
func (q *queries) AddToFranchise(ctx context.Context, franchiseID, gameID string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO in_franchise (game_id, franchise_id) VALUES (?, ?)`, gameID, franchiseID)
	if err != nil {
		return fmt.Errorf("add game %s to franchise %s: %w", gameID, franchiseID, err)
	}
	return nil
}

// FranchisesOf returns the franchises a game belongs to, ordered by name
func (q *queries) FranchisesOf(ctx context.Context, gameID string) ([]model.Franchise, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT f.id, f.name
		FROM franchises f JOIN in_franchise i ON i.franchise_id = f.id
		WHERE i.game_id = ?
		ORDER BY f.name, f.id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query franchises: %w", err)
	}
	defer rows.Close()

	var out []model.Franchise
	for rows.Next() {
		var f model.Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan franchise: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ImportCatalog loads games and franchises in a single transaction
func (s *Store) ImportCatalog(ctx context.Context, c model.Catalog) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, g := range c.Games {
		if err = tx.UpsertGame(ctx, g); err != nil {
			return err
		}
	}
	for _, f := range c.Franchises {
		if err = tx.UpsertFranchise(ctx, f); err != nil {
			return err
		}
		for _, id := range f.GameIDs {
			if err = tx.AddToFranchise(ctx, f.ID, id); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
