// Package shelf persists user-archived catalog entries.
//
// The shelf is a durability mirror: the archive service keeps the
// session catalog in memory and writes user entries through to the
// shelf keyed by entry id. Built-in entries never touch the shelf.
//
// The *sql.DB is opened once at startup and injected; the shelf never
// opens connections itself.
package shelf

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/arcana/book"
	"github.com/hazyhaar/arcana/dbopen"
)

// ErrUnavailable is returned when the underlying database cannot serve
// the operation. Callers roll back any optimistic in-memory change.
var ErrUnavailable = errors.New("shelf: store unavailable")

// Schema creates the user entry table, keyed by entry id.
const Schema = `
CREATE TABLE IF NOT EXISTS user_books (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    author       TEXT NOT NULL DEFAULT '',
    year         INTEGER NOT NULL DEFAULT 0,
    tags_json    TEXT NOT NULL DEFAULT '[]',
    description  TEXT NOT NULL DEFAULT '',
    cover_image  TEXT NOT NULL DEFAULT '',
    file_url     TEXT NOT NULL DEFAULT 'none',
    text_content TEXT NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL,
    updated_at   INTEGER NOT NULL
);
`

// Store maps entry ids to catalog entries in SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store on an already-opened database and applies the
// schema. A database that cannot take the schema is unavailable.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, unavailable("init", err)
	}
	return &Store{db: db}, nil
}

// GetAll returns every persisted user entry. An empty shelf yields an
// empty slice, not an error.
func (s *Store) GetAll(ctx context.Context) ([]*book.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, year, tags_json, description, cover_image, file_url, text_content
		FROM user_books ORDER BY created_at, id`)
	if err != nil {
		return nil, unavailable("get all", err)
	}
	defer rows.Close()

	entries := []*book.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, unavailable("scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("get all", err)
	}
	return entries, nil
}

// Put upserts an entry by id: creates if new, fully overwrites if the
// id already exists. Transient match spans are never stored.
func (s *Store) Put(ctx context.Context, e *book.Entry) error {
	tags, err := json.Marshal(orEmpty(e.Tags))
	if err != nil {
		return unavailable("encode tags", err)
	}
	now := time.Now().UnixMilli()
	_, err = dbopen.Exec(ctx, s.db,
		`INSERT INTO user_books
			(id, title, author, year, tags_json, description, cover_image, file_url, text_content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			year = excluded.year,
			tags_json = excluded.tags_json,
			description = excluded.description,
			cover_image = excluded.cover_image,
			file_url = excluded.file_url,
			text_content = excluded.text_content,
			updated_at = excluded.updated_at`,
		e.ID, e.Title, e.Author, e.Year, string(tags), e.Description,
		e.CoverImage, e.FileURL, e.TextContent, now, now,
	)
	if err != nil {
		return unavailable("put "+e.ID, err)
	}
	return nil
}

// Delete removes an entry if present. Deleting an absent id is a
// successful no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := dbopen.Exec(ctx, s.db, `DELETE FROM user_books WHERE id = ?`, id); err != nil {
		return unavailable("delete "+id, err)
	}
	return nil
}

// Count returns the number of persisted user entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_books`).Scan(&n); err != nil {
		return 0, unavailable("count", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (*book.Entry, error) {
	var e book.Entry
	var tagsJSON string
	if err := rows.Scan(&e.ID, &e.Title, &e.Author, &e.Year, &tagsJSON,
		&e.Description, &e.CoverImage, &e.FileURL, &e.TextContent); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
		return nil, fmt.Errorf("tags for %s: %w", e.ID, err)
	}
	return &e, nil
}

func orEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
