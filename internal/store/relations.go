package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ppiankov/gamelore/internal/model"
)

const relationColumns = `subject, relation, object, extra, original_phrase, game_id, franchise_id`

// RelationFilter narrows FindRelations. Empty fields match everything.
type RelationFilter struct {
	Subject         string // exact, case-insensitive
	SubjectContains string // substring, case-insensitive
	Relation        string
	GameID          string
	Limit           int
}

// InsertRelations stores relations, returning the count of new rows.
// Relations whose key is already stored are ignored.
func (q *queries) InsertRelations(ctx context.Context, rels []model.Relation) (int, error) {
	inserted := 0
	for _, r := range rels {
		res, err := q.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO relations (`+relationColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.Subject, r.Relation, r.Object, r.Extra, r.OriginalPhrase, gameID(r.GameID), nullString(r.FranchiseID))
		if err != nil {
			return inserted, fmt.Errorf("insert relation: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		if affected > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// FindRelations returns stored relations matching f
func (q *queries) FindRelations(ctx context.Context, f RelationFilter) ([]model.Relation, error) {
	var where []string
	var args []any

	if f.Subject != "" {
		where = append(where, "lower(subject) = lower(?)")
		args = append(args, f.Subject)
	}
	if f.SubjectContains != "" {
		where = append(where, `subject LIKE ? ESCAPE '\'`)
		args = append(args, contains(f.SubjectContains))
	}
	if f.Relation != "" {
		where = append(where, "relation = ?")
		args = append(args, f.Relation)
	}
	if f.GameID != "" {
		where = append(where, "game_id = ?")
		args = append(args, f.GameID)
	}

	query := `SELECT ` + relationColumns + ` FROM relations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return q.queryRelations(ctx, query, args...)
}

// RandomRelation returns one stored relation picked at random, or nil
func (q *queries) RandomRelation(ctx context.Context) (*model.Relation, error) {
	rels, err := q.queryRelations(ctx, `SELECT `+relationColumns+` FROM relations ORDER BY RANDOM() LIMIT 1`)
	if err != nil || len(rels) == 0 {
		return nil, err
	}
	return &rels[0], nil
}

// DeleteRelationsBySubject removes every relation about subject and
// returns how many were removed
func (q *queries) DeleteRelationsBySubject(ctx context.Context, subject string) (int, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM relations WHERE lower(subject) = lower(?)`, subject)
	if err != nil {
		return 0, fmt.Errorf("delete relations: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountRelations returns the number of stored relations
func (q *queries) CountRelations(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count relations: %w", err)
	}
	return n, nil
}

func (q *queries) queryRelations(ctx context.Context, query string, args ...any) ([]model.Relation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	var out []model.Relation
	for rows.Next() {
		var r model.Relation
		var franchise sql.NullString
		if err := rows.Scan(&r.Subject, &r.Relation, &r.Object, &r.Extra, &r.OriginalPhrase, &r.GameID, &franchise); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		if franchise.Valid {
			r.FranchiseID = &franchise.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func gameID(id string) string {
	if id == "" {
		return model.RealityID
	}
	return id
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
