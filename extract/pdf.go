package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// paragraphGap is the line-gap multiplier that marks a paragraph break:
// a vertical gap larger than 1.5× the previous line's height means the
// author left blank space between paragraphs.
const paragraphGap = 1.5

// defaultLineHeight seeds the gap comparison before the first line of a
// page has established a real height.
const defaultLineHeight = 12.0

// Fragment is one positioned text run on a PDF page. Coordinates are
// PDF user space: origin bottom-left, Y is the glyph baseline.
type Fragment struct {
	X      float64
	Y      float64
	Height float64
	Text   string
}

// extractPDF reconstructs reading-order text from a PDF. The content
// streams carry fragments in arbitrary order; geometry alone decides
// the output order.
func extractPDF(ctx context.Context, data []byte) (string, *Quality, error) {
	quality, err := inspectPDF(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var pages []string
	totalChars := 0
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := assemblePage(pageFragments(page))
		if text == "" {
			// A page without text fragments contributes nothing,
			// not even a separator.
			continue
		}
		totalChars += len([]rune(text))
		pages = append(pages, text)
	}

	full := strings.TrimRight(strings.Join(pages, "\n\n"), " \t\r\n")
	quality.fill(full, totalChars)
	return full, quality, nil
}

// pageFragments reads the positioned text runs of one page. The reader
// yields one entry per show operation, which for many generators means
// one glyph at a time; horizontally contiguous runs on the same
// baseline are merged back into words before line assembly.
func pageFragments(page pdf.Page) []Fragment {
	content := page.Content()
	var frags []Fragment

	var cur *Fragment
	var curEnd float64
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		contiguous := cur != nil &&
			math.Round(t.Y) == math.Round(cur.Y) &&
			t.X >= curEnd-0.5 &&
			t.X <= curEnd+maxJoinGap(cur.Height)
		if contiguous {
			cur.Text += t.S
			curEnd = t.X + t.W
			continue
		}
		if cur != nil {
			frags = append(frags, *cur)
		}
		cur = &Fragment{X: t.X, Y: t.Y, Height: t.FontSize, Text: t.S}
		curEnd = t.X + t.W
	}
	if cur != nil {
		frags = append(frags, *cur)
	}
	return frags
}

// maxJoinGap is the widest horizontal hole still considered intra-word.
func maxJoinGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.0
	}
	return fontSize * 0.25
}

// assemblePage orders fragments into visual reading order and joins
// them into paragraph-separated text:
//
//  1. fragments with whitespace-only text are dropped
//  2. fragments sharing a rounded baseline form one line (rounding
//     absorbs sub-pixel jitter)
//  3. lines run top to bottom: descending Y, since the PDF origin is
//     bottom-left
//  4. within a line fragments run left to right and join with a space
//  5. a baseline gap above paragraphGap × the previous line's height
//     emits one blank separator line
//
// The height used in step 5 is always the height of the previous
// line's left-most fragment, tracked across lines so a font-size
// change does not miscompute the following gap.
func assemblePage(frags []Fragment) string {
	lines := make(map[int][]Fragment)
	for _, f := range frags {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		y := int(math.Round(f.Y))
		lines[y] = append(lines[y], f)
	}
	if len(lines) == 0 {
		return ""
	}

	ys := make([]int, 0, len(lines))
	for y := range lines {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var out []string
	lastY := 0.0
	haveLast := false
	lastHeight := defaultLineHeight

	for _, y := range ys {
		items := lines[y]
		sort.SliceStable(items, func(i, j int) bool { return items[i].X < items[j].X })

		height := items[0].Height
		if height <= 0 {
			height = lastHeight
		}

		if haveLast && lastY-float64(y) > lastHeight*paragraphGap {
			out = append(out, "")
		}

		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.Text
		}
		out = append(out, strings.Join(parts, " "))

		lastY = float64(y)
		haveLast = true
		lastHeight = height
	}

	return strings.Join(out, "\n")
}
