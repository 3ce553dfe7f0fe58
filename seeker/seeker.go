// Package seeker builds the fuzzy search index over the session
// catalog.
//
// The index is rebuilt whenever the catalog changes and ranks entries
// across three fields (title, author, tags). Matching tolerates typos
// and partial words: a query clears the index when a substring, an
// in-order subsequence (sahilm/fuzzy), or a word within edit-distance
// tolerance (agnivade/levenshtein) is found. Scores are
// dissimilarities on a 0–1 scale, 0 best; position in the field is
// ignored. Every hit carries inclusive [start,end] rune spans usable
// for highlight rendering.
package seeker

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/hazyhaar/arcana/book"
)

// Options tunes index behaviour.
type Options struct {
	// Threshold is the maximum dissimilarity accepted (default 0.4).
	Threshold float64

	// MinMatchLength is the shortest reported match span and the
	// shortest query that triggers ranking (default 2).
	MinMatchLength int
}

func (o *Options) defaults() {
	if o.Threshold <= 0 {
		o.Threshold = 0.4
	}
	if o.MinMatchLength <= 0 {
		o.MinMatchLength = 2
	}
}

// Scores per match strategy; edit-distance matches score by their
// normalised distance instead.
const (
	scoreExact       = 0.0
	scoreSubstring   = 0.1
	scoreSubsequence = 0.25
)

// Index is an immutable snapshot of the catalog, ready to search.
type Index struct {
	opts    Options
	entries []*book.Entry
}

// New builds an index over the given entries. The slice is captured by
// reference; rebuild the index after any catalog change.
func New(entries []*book.Entry, opts Options) *Index {
	opts.defaults()
	return &Index{opts: opts, entries: entries}
}

// Search ranks the catalog against query, then applies an exact-tag
// category filter. An empty or whitespace query skips ranking and
// returns the whole catalog without match spans. A query matching
// nothing returns an empty slice, not an error.
func (ix *Index) Search(query, category string) []*book.Entry {
	query = strings.TrimSpace(query)

	var results []*book.Entry
	if query == "" {
		results = make([]*book.Entry, 0, len(ix.entries))
		for _, e := range ix.entries {
			results = append(results, e.Clone())
		}
	} else {
		results = ix.rank(query)
	}

	if category == "" || category == book.CategoryAll {
		return results
	}
	filtered := results[:0]
	for _, e := range results {
		if e.HasTag(category) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

type scored struct {
	entry *book.Entry
	score float64
	pos   int
}

func (ix *Index) rank(query string) []*book.Entry {
	if len([]rune(query)) < ix.opts.MinMatchLength {
		return []*book.Entry{}
	}

	var hits []scored
	for pos, e := range ix.entries {
		var matches []book.Match
		best := -1.0

		fields := []struct{ key, value string }{
			{"title", e.Title},
			{"author", e.Author},
		}
		for _, f := range fields {
			if m, ok := ix.matchField(query, f.key, f.value); ok {
				matches = append(matches, m)
				if best < 0 || m.Score < best {
					best = m.Score
				}
			}
		}
		for _, tag := range e.Tags {
			if m, ok := ix.matchField(query, "tags", tag); ok {
				matches = append(matches, m)
				if best < 0 || m.Score < best {
					best = m.Score
				}
			}
		}

		if best >= 0 {
			c := e.Clone()
			c.Matches = matches
			hits = append(hits, scored{entry: c, score: best, pos: pos})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]*book.Entry, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.entry)
	}
	return out
}

// matchField tries the strategies from cheapest to loosest and keeps
// the best-scoring one under the threshold.
func (ix *Index) matchField(query, key, value string) (book.Match, bool) {
	if strings.TrimSpace(value) == "" {
		return book.Match{}, false
	}
	q := strings.ToLower(query)
	v := strings.ToLower(value)

	bestScore := -1.0
	var bestSpans [][2]int

	if spans, score, ok := substringMatch(q, v); ok {
		bestScore, bestSpans = score, spans
	}
	if bestScore != scoreExact {
		if spans, ok := ix.subsequenceMatch(query, value); ok && (bestScore < 0 || scoreSubsequence < bestScore) {
			bestScore, bestSpans = scoreSubsequence, spans
		}
		if spans, score, ok := ix.editDistanceMatch(q, v); ok && (bestScore < 0 || score < bestScore) {
			bestScore, bestSpans = score, spans
		}
	}

	if bestScore < 0 || bestScore > ix.opts.Threshold {
		return book.Match{}, false
	}
	return book.Match{Key: key, Value: value, Indices: bestSpans, Score: bestScore}, true
}

// substringMatch finds the query verbatim anywhere in the value.
func substringMatch(q, v string) ([][2]int, float64, bool) {
	idx := strings.Index(v, q)
	if idx < 0 {
		return nil, 0, false
	}
	start := len([]rune(v[:idx]))
	end := start + len([]rune(q)) - 1
	score := scoreSubstring
	if q == v {
		score = scoreExact
	}
	return [][2]int{{start, end}}, score, true
}

// subsequenceMatch accepts the query as an in-order subsequence of the
// value, the way incremental finders complete partial words. Runs of
// consecutive matched runes become highlight spans; a match counts
// only if at least one run reaches MinMatchLength.
func (ix *Index) subsequenceMatch(query, value string) ([][2]int, bool) {
	ms := fuzzy.Find(query, []string{value})
	if len(ms) == 0 {
		return nil, false
	}

	byteToRune := make(map[int]int, len(value))
	rpos := 0
	for bpos := range value {
		byteToRune[bpos] = rpos
		rpos++
	}

	var spans [][2]int
	longest := 0
	runStart, prev := -1, -2
	flush := func() {
		if runStart < 0 {
			return
		}
		span := [2]int{byteToRune[runStart], byteToRune[prev]}
		if n := span[1] - span[0] + 1; n > longest {
			longest = n
		}
		spans = append(spans, span)
	}
	for _, bpos := range ms[0].MatchedIndexes {
		if bpos != prev+1 {
			flush()
			runStart = bpos
		}
		prev = bpos
	}
	flush()

	if longest < ix.opts.MinMatchLength {
		return nil, false
	}
	return spans, true
}

// editDistanceMatch compares the query against each word of the value
// (and the whole value), scoring by normalised Levenshtein distance so
// transposed or doubled letters still match.
func (ix *Index) editDistanceMatch(q, v string) ([][2]int, float64, bool) {
	bestScore := -1.0
	var bestSpan [2]int

	consider := func(candidate string, start, end int) {
		n := max(len([]rune(q)), len([]rune(candidate)))
		if n == 0 {
			return
		}
		score := float64(levenshtein.ComputeDistance(q, candidate)) / float64(n)
		if bestScore < 0 || score < bestScore {
			bestScore = score
			bestSpan = [2]int{start, end}
		}
	}

	for _, w := range fieldWords(v) {
		consider(w.text, w.start, w.end)
	}
	vRunes := []rune(v)
	consider(v, 0, len(vRunes)-1)

	if bestScore < 0 || bestScore > ix.opts.Threshold {
		return nil, 0, false
	}
	return [][2]int{bestSpan}, bestScore, true
}

type word struct {
	text       string
	start, end int // inclusive rune positions in the field value
}

func fieldWords(v string) []word {
	var words []word
	runes := []rune(v)
	start := -1
	for i, r := range runes {
		sep := unicode.IsSpace(r) || unicode.IsPunct(r)
		if !sep && start < 0 {
			start = i
		}
		if sep && start >= 0 {
			words = append(words, word{text: string(runes[start:i]), start: start, end: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, word{text: string(runes[start:]), start: start, end: len(runes) - 1})
	}
	return words
}
