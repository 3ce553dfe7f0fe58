// Package book defines the catalog domain types shared across arcana.
//
// An Entry is one manuscript record, either compiled in (seed package)
// or archived by the user (shelf package). Match carries transient
// search-highlight spans and is never persisted.
package book

import (
	"slices"
	"sort"
	"strings"
)

// NoFile is the FileURL sentinel meaning the entry has no retrievable
// original file (pasted text, or a built-in without an external link).
const NoFile = "none"

// Entry is one catalog manuscript.
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Year        int      `json:"year"` // negative for BCE
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	FileURL     string   `json:"fileUrl"`
	TextContent string   `json:"textContent,omitempty"`

	// Matches is populated by seeker for search results only.
	Matches []Match `json:"matches,omitempty"`
}

// Match describes why an entry matched a search query on one field.
type Match struct {
	Key     string   `json:"key"`             // "title", "author" or "tags"
	Value   string   `json:"value"`           // the matched field value
	Indices [][2]int `json:"indices"`         // inclusive [start,end] rune spans, non-overlapping
	Score   float64  `json:"score"`           // 0 = exact, up to the search threshold
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	c.Matches = nil
	if len(e.Matches) > 0 {
		c.Matches = make([]Match, len(e.Matches))
		for i, m := range e.Matches {
			c.Matches[i] = m
			c.Matches[i].Indices = slices.Clone(m.Indices)
		}
	}
	return &c
}

// HasTag reports whether the entry carries the tag (exact match).
func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// HasFile reports whether the entry references a retrievable file.
func (e *Entry) HasFile() bool {
	return e.FileURL != "" && e.FileURL != NoFile
}

// CategoryAll is the pseudo-category matching every entry.
const CategoryAll = "All"

// Categories derives the category list from a set of entries: the
// sorted union of all tags, with CategoryAll first.
func Categories(entries []*Entry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, t := range e.Tags {
			if t = strings.TrimSpace(t); t != "" {
				seen[t] = true
			}
		}
	}
	out := make([]string, 0, len(seen)+1)
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return append([]string{CategoryAll}, out...)
}
