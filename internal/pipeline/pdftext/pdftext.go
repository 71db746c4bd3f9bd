// Package pdftext turns a text-extractable PDF into per-page plain lines,
// reconstructing reading order from the positioned text fragments.
package pdftext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is the Y distance within which fragments count as one line.
const rowTolerance = 3.0

// Page is the text content of one PDF page in reading order.
type Page struct {
	Number int // 1-based
	Lines  []string
}

type Document struct {
	Path  string
	Pages []Page
}

// Open reads and extracts a whole report file. Pages that cannot be
// extracted are kept as empty pages so page numbering stays aligned with
// the source document.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdf.Open: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc := &Document{Path: path, Pages: make([]Page, 0, r.NumPage())}
	for i := 1; i <= r.NumPage(); i++ {
		page := Page{Number: i}

		p := r.Page(i)
		if !p.V.IsNull() {
			page.Lines = extractLines(p)
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// FromLines builds a synthetic document, one argument per page. Used by
// tests and by callers that already hold extracted text.
func FromLines(pages ...[]string) *Document {
	doc := &Document{}
	for i, lines := range pages {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Lines: lines})
	}
	return doc
}

// extractLines groups positioned fragments into rows by Y coordinate and
// joins each row left to right.
func extractLines(p pdf.Page) []string {
	content := p.Content()
	if len(content.Text) == 0 {
		// Fall back to the library's plain text extraction when the
		// page has no positioned content stream.
		plain, err := p.GetPlainText(nil)
		if err != nil || plain == "" {
			return nil
		}
		return splitPlain(plain)
	}

	frags := make([]pdf.Text, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) != "" {
			frags = append(frags, t)
		}
	}
	if len(frags) == 0 {
		return nil
	}

	rows := groupIntoRows(frags)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var b strings.Builder
		var lastEnd float64
		for i, t := range row {
			if i > 0 && t.X-lastEnd > wordGap(t) {
				b.WriteByte(' ')
			}
			b.WriteString(t.S)
			lastEnd = t.X + t.W
		}
		lines = append(lines, b.String())
	}

	return lines
}

func wordGap(t pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.3
	}
	return 3.0
}

func groupIntoRows(frags []pdf.Text) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}

	var buckets []*bucket
	for _, t := range frags {
		var found *bucket
		for _, b := range buckets {
			if t.Y >= b.yMin-rowTolerance && t.Y <= b.yMax+rowTolerance {
				found = b
				break
			}
		}
		if found == nil {
			buckets = append(buckets, &bucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
			continue
		}
		found.texts = append(found.texts, t)
		if t.Y < found.yMin {
			found.yMin = t.Y
		}
		if t.Y > found.yMax {
			found.yMax = t.Y
		}
	}

	// PDF Y grows upward: higher Y renders higher on the page.
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].yMax > buckets[j].yMax })

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		rows[i] = b.texts
	}
	return rows
}

func splitPlain(plain string) []string {
	raw := strings.Split(plain, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimRight(l, " \t\r"))
	}
	return lines
}
