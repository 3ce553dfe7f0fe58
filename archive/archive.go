// Package archive is the session catalog: the built-in collection plus
// every manuscript the reader has archived, with fuzzy search and the
// full archive/delete lifecycle on top.
//
// The Service owns an in-memory working set guarded by a RWMutex and
// keeps the durable store and the search index in step with it. Reads
// (List, Get, Search, Categories) return deep copies, so callers can
// never mutate catalog state behind the lock.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hazyhaar/arcana/book"
	"github.com/hazyhaar/arcana/extract"
	"github.com/hazyhaar/arcana/idgen"
	"github.com/hazyhaar/arcana/scribe"
	"github.com/hazyhaar/arcana/seed"
	"github.com/hazyhaar/arcana/seeker"
)

var (
	// ErrNotFound reports an unknown catalog id.
	ErrNotFound = errors.New("archive: entry not found")

	// ErrBuiltin reports an attempt to delete a built-in entry.
	ErrBuiltin = errors.New("archive: built-in entries cannot be removed")

	// ErrEmptyManuscript reports a submission with no usable text.
	ErrEmptyManuscript = errors.New("archive: manuscript is empty")
)

// Store persists user-archived entries across sessions.
type Store interface {
	GetAll(ctx context.Context) ([]*book.Entry, error)
	Put(ctx context.Context, e *book.Entry) error
	Delete(ctx context.Context, id string) error
}

// Analyzer infers metadata from manuscript text.
type Analyzer interface {
	Configured() bool
	Analyze(ctx context.Context, text string) (*scribe.Analysis, error)
}

// Extractor turns an uploaded file into text plus an embeddable data
// URL.
type Extractor interface {
	Extract(ctx context.Context, name, mimeType string, data []byte) (*extract.Document, error)
}

// Config wires the Service. Store, Analyzer and Extractor are
// required; the rest defaults.
type Config struct {
	Store     Store
	Analyzer  Analyzer
	Extractor Extractor

	// Search tunes the fuzzy index rebuilt on every catalog change.
	Search seeker.Options

	// IDs generates identifiers for archived entries (default UUIDv7).
	IDs idgen.Generator

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.IDs == nil {
		c.IDs = idgen.Default
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service is the catalog facade the HTTP layer talks to.
type Service struct {
	store     Store
	analyzer  Analyzer
	extractor Extractor
	ids       idgen.Generator
	search    seeker.Options
	log       *slog.Logger

	mu      sync.RWMutex
	entries []*book.Entry
	builtin map[string]bool
	index   *seeker.Index
}

// New builds a Service. Call Load before serving requests.
func New(cfg Config) (*Service, error) {
	cfg.defaults()
	if cfg.Store == nil {
		return nil, errors.New("archive: Config.Store is required")
	}
	if cfg.Analyzer == nil {
		return nil, errors.New("archive: Config.Analyzer is required")
	}
	if cfg.Extractor == nil {
		return nil, errors.New("archive: Config.Extractor is required")
	}
	return &Service{
		store:     cfg.Store,
		analyzer:  cfg.Analyzer,
		extractor: cfg.Extractor,
		ids:       cfg.IDs,
		search:    cfg.Search,
		log:       cfg.Logger,
	}, nil
}

// Load seeds the working set with the built-in collection, merges the
// persisted user entries on top, and builds the first search index.
func (s *Service) Load(ctx context.Context) error {
	stored, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = seed.Entries()
	s.builtin = make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		s.builtin[e.ID] = true
	}
	for _, e := range stored {
		s.upsertLocked(e)
	}
	s.rebuildLocked()

	s.log.Info("catalog loaded", "builtin", len(s.builtin), "archived", len(stored))
	return nil
}

// List returns the whole catalog in stable order.
func (s *Service) List() []*book.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*book.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Get returns one entry by id.
func (s *Service) Get(id string) (*book.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Categories returns the distinct tag set of the current catalog,
// sorted, with the All pseudo-category first.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return book.Categories(s.entries)
}

// Search ranks the catalog against query and filters by category.
func (s *Service) Search(query, category string) []*book.Entry {
	s.mu.RLock()
	ix := s.index
	s.mu.RUnlock()
	if ix == nil {
		return []*book.Entry{}
	}
	return ix.Search(query, category)
}

// Configured reports whether metadata inference is available.
func (s *Service) Configured() bool {
	return s.analyzer.Configured()
}

// Submission is one manuscript to archive: either raw text or an
// uploaded file, never both.
type Submission struct {
	Text string

	FileName string
	FileMIME string
	FileData []byte
}

// Archive runs the full flow: extract (for uploads), infer metadata,
// persist, then publish to the working set and rebuild the index. The
// entry becomes visible only after the store accepted it.
func (s *Service) Archive(ctx context.Context, sub Submission) (*book.Entry, error) {
	text := sub.Text
	fileURL := book.NoFile

	if len(sub.FileData) > 0 {
		doc, err := s.extractor.Extract(ctx, sub.FileName, sub.FileMIME, sub.FileData)
		if err != nil {
			return nil, err
		}
		text = doc.Text
		fileURL = doc.DataURL
		if q := doc.Quality; q != nil && q.NeedsOCR() {
			s.log.Warn("manuscript likely needs OCR", "file", sub.FileName,
				"chars_per_page", q.CharsPerPage, "printable_ratio", q.PrintableRatio)
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyManuscript
	}

	analysis, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	entry := &book.Entry{
		ID:          s.ids(),
		Title:       analysis.Title,
		Author:      analysis.Author,
		Year:        analysis.Year,
		Tags:        analysis.Tags,
		Description: analysis.Description,
		CoverImage:  coverURL(analysis.Title),
		FileURL:     fileURL,
		TextContent: text,
	}

	if err := s.store.Put(ctx, entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.upsertLocked(entry)
	s.rebuildLocked()
	s.mu.Unlock()

	s.log.Info("manuscript archived", "id", entry.ID, "title", entry.Title)
	return entry.Clone(), nil
}

// Delete removes a user-archived entry. The working set is updated
// first so the UI responds immediately; a store failure rolls the
// entry back in.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.builtin[id] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBuiltin, id)
	}
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snapshot := s.entries
	next := make([]*book.Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	s.entries = next
	s.rebuildLocked()
	s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.entries = snapshot
		s.rebuildLocked()
		s.mu.Unlock()
		s.log.Error("delete rolled back", "id", id, "error", err)
		return err
	}

	s.log.Info("entry removed", "id", id)
	return nil
}

// upsertLocked replaces an entry with the same id or appends. Last
// write wins on duplicate submissions.
func (s *Service) upsertLocked(e *book.Entry) {
	for i, cur := range s.entries {
		if cur.ID == e.ID {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// rebuildLocked snapshots the working set into a fresh index. The
// copy keeps older index references valid for in-flight searches
// after the slice is mutated.
func (s *Service) rebuildLocked() {
	s.index = seeker.New(append([]*book.Entry(nil), s.entries...), s.search)
}

// coverURL derives a stable placeholder cover from the title.
func coverURL(title string) string {
	seed := strings.Join(strings.Fields(title), "-")
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/600", seed)
}
