// Package layout recognizes the price table on a report page and splits
// it into raw rows of string cells.
package layout

import (
	"strings"
	"unicode"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/normalize"
	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
)

// PageRows is the parse result for one page. A page without a
// recognizable header yields HadTable=false and no rows; the orchestrator
// reads that as "no table on this page", not as an error.
type PageRows struct {
	HadTable bool
	Rows     []domain.RawRow
}

// Parser applies one layout revision. Pure and restartable: parsing a
// page never mutates the parser.
type Parser struct {
	layout  catalog.Layout
	headers []string
	footers []string
}

func NewParser(layout catalog.Layout) *Parser {
	p := &Parser{layout: layout}
	for _, kw := range layout.HeaderKeywords {
		p.headers = append(p.headers, normalize.Fold(kw))
	}
	for _, kw := range layout.FooterKeywords {
		p.footers = append(p.footers, normalize.Fold(kw))
	}
	return p
}

// ParsePage scans one page for the table. The header row is found by
// keyword matching tolerant of the regulator's wording changes; data rows
// run until a footer keyword, a blank-line run or the end of the page.
func (p *Parser) ParsePage(page pdftext.Page) PageRows {
	var res PageRows

	inTable := false
	blanks := 0
	for lineIdx, line := range page.Lines {
		folded := normalize.Fold(line)

		if !inTable {
			if p.isHeader(folded) {
				inTable = true
				res.HadTable = true
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks >= 2 {
				break
			}
			continue
		}
		blanks = 0

		if p.isFooter(folded) {
			break
		}
		if p.isHeader(folded) {
			// Header continuation line (units row, wrapped titles).
			continue
		}
		if !startsWithLetter(line) {
			// Page numbers, rules, footnote markers.
			continue
		}

		cells := p.splitCells(line)
		for len(cells) < len(p.layout.Columns) {
			// Short rows are padded, never dropped here; the
			// validator owns the rejection.
			cells = append(cells, "")
		}

		res.Rows = append(res.Rows, domain.RawRow{
			Page:  page.Number,
			Line:  lineIdx,
			Cells: cells,
		})
	}

	return res
}

func (p *Parser) isHeader(folded string) bool {
	hits := 0
	for _, kw := range p.headers {
		if strings.Contains(folded, kw) {
			hits++
		}
	}
	return hits >= p.layout.HeaderMinHits
}

func (p *Parser) isFooter(folded string) bool {
	for _, kw := range p.footers {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// splitCells prefers fixed column positions, visible in the extracted
// text as runs of two or more spaces. Lines without them fall back to
// single-space token splitting, reassembling the multi-word locality by
// scanning for the one-letter kraj code that follows it.
func (p *Parser) splitCells(line string) []string {
	if cells := splitOnGaps(line); len(cells) >= p.layout.MinColumns {
		return cells
	}

	tokens := strings.Fields(line)
	if len(p.layout.Columns) < 2 ||
		p.layout.Columns[0] != catalog.FieldLocality ||
		p.layout.Columns[1] != catalog.FieldRegion {
		return tokens
	}

	split := -1
	for i, tok := range tokens {
		if isRegionCode(tok) && i > 0 {
			split = i
			break
		}
	}
	if split < 0 {
		return tokens
	}

	cells := []string{strings.Join(tokens[:split], " "), tokens[split]}
	return append(cells, tokens[split+1:]...)
}

func splitOnGaps(line string) []string {
	var cells []string
	for _, part := range strings.Split(line, "  ") {
		part = strings.TrimSpace(part)
		if part != "" {
			cells = append(cells, part)
		}
	}
	return cells
}

func isRegionCode(tok string) bool {
	runes := []rune(tok)
	return len(runes) == 1 && unicode.IsUpper(runes[0])
}

func startsWithLetter(line string) bool {
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		return unicode.IsLetter(r)
	}
	return false
}
