package pdftext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
)

func TestFromLines(t *testing.T) {
	doc := pdftext.FromLines(
		[]string{"první stránka", "druhý řádek"},
		nil,
		[]string{"třetí stránka"},
	)

	require.Len(t, doc.Pages, 3)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, []string{"první stránka", "druhý řádek"}, doc.Pages[0].Lines)
	// Empty pages stay in place so numbering matches the source document.
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Empty(t, doc.Pages[1].Lines)
	assert.Equal(t, 3, doc.Pages[2].Number)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := pdftext.Open("testdata/does-not-exist.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf.Open")
}
