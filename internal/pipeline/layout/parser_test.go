package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/layout"
	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
)

func newParser(t *testing.T) *layout.Parser {
	t.Helper()
	lay, err := catalog.Default().LayoutFor(2021)
	require.NoError(t, err)
	return layout.NewParser(lay)
}

const headerLine = "Cenová lokalita  Kraj  Převažující palivo  Instalovaný výkon  Odběrná místa  Odběratelé  Způsob dodávky  Cena tepla  Množství"

func TestParsePageFindsTableAfterHeader(t *testing.T) {
	p := newParser(t)

	res := p.ParsePage(pdftext.Page{Number: 1, Lines: []string{
		"Výsledné ceny tepelné energie v roce 2021",
		"",
		headerLine,
		"Olomouc  M  uhlí  12,5  34  120  pára  623,50  15 320",
		"Brno  B  zemní plyn  8,1  12  96  horká voda  540,00  8 210",
		"Zdroj: ERÚ",
		"Tento řádek už do tabulky nepatří",
	}})

	assert.True(t, res.HadTable)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"Olomouc", "M", "uhlí", "12,5", "34", "120", "pára", "623,50", "15 320"}, res.Rows[0].Cells)
	assert.Equal(t, 1, res.Rows[0].Page)
	assert.Equal(t, 3, res.Rows[0].Line)
}

func TestParsePageWithoutHeader(t *testing.T) {
	p := newParser(t)

	res := p.ParsePage(pdftext.Page{Number: 2, Lines: []string{
		"Metodika výpočtu",
		"Olomouc  M  uhlí  12,5  34  120  pára  623,50  15 320",
	}})

	assert.False(t, res.HadTable)
	assert.Empty(t, res.Rows)
}

func TestParsePageStopsOnBlankRun(t *testing.T) {
	p := newParser(t)

	res := p.ParsePage(pdftext.Page{Number: 1, Lines: []string{
		headerLine,
		"Olomouc  M  uhlí  12,5  34  120  pára  623,50  15 320",
		"",
		"",
		"Brno  B  zemní plyn  8,1  12  96  horká voda  540,00  8 210",
	}})

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Olomouc", res.Rows[0].Cells[0])
}

func TestParsePageSkipsNonDataLines(t *testing.T) {
	p := newParser(t)

	res := p.ParsePage(pdftext.Page{Number: 1, Lines: []string{
		headerLine,
		"Kč/GJ  GJ", // units continuation, starts with a letter but single gap run
		"12",        // page number
		"___________",
		"Olomouc  M  uhlí  12,5  34  120  pára  623,50  15 320",
	}})

	require.Len(t, res.Rows, 2)
	// The stray units line survives as a (padded) row and is left to the
	// validator; digit and rule lines never become rows.
	assert.Equal(t, "Olomouc", res.Rows[1].Cells[0])
}

func TestSplitCellsFallbackReassemblesLocality(t *testing.T) {
	p := newParser(t)

	// Single-space tokens only, as older extractions produce. The locality
	// spans three words and ends at the one-letter kraj code.
	res := p.ParsePage(pdftext.Page{Number: 1, Lines: []string{
		headerLine,
		"Ústí nad Labem U plyn 8,1 12 96 pára 540,00 8210",
	}})

	require.Len(t, res.Rows, 1)
	cells := res.Rows[0].Cells
	assert.Equal(t, "Ústí nad Labem", cells[0])
	assert.Equal(t, "U", cells[1])
	assert.Equal(t, "plyn", cells[2])
	assert.Equal(t, "540,00", cells[7])
}

func TestShortRowsPaddedToLayoutWidth(t *testing.T) {
	p := newParser(t)
	lay, err := catalog.Default().LayoutFor(2021)
	require.NoError(t, err)

	res := p.ParsePage(pdftext.Page{Number: 1, Lines: []string{
		headerLine,
		"Cheb K",
	}})

	require.Len(t, res.Rows, 1)
	assert.Len(t, res.Rows[0].Cells, len(lay.Columns))
	assert.Equal(t, "", res.Rows[0].Cells[len(lay.Columns)-1])
}
