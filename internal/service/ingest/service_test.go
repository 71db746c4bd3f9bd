package ingest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
	"github.com/ougirez/cenytepla/internal/service/ingest"
)

const headerLine = "Cenová lokalita  Kraj  Převažující palivo  Instalovaný výkon  Odběrná místa  Odběratelé  Způsob dodávky  Cena tepla  Množství"

func dataLine(locality, region string, n int) string {
	return fmt.Sprintf("%s  %s  uhlí  12,5  34  120  pára  %d,50  15 320", locality, region, 500+n)
}

// reportDoc is the canonical happy-path document: a table page with ten
// valid rows, a page with two rows whose price cell does not parse, and a
// trailing prose page without a table.
func reportDoc() *pdftext.Document {
	page1 := []string{headerLine}
	for i := 0; i < 10; i++ {
		page1 = append(page1, dataLine(fmt.Sprintf("Lokalita %d", i), "U", i))
	}

	page2 := []string{
		headerLine,
		"Vadná Lhota  U  uhlí  12,5  34  120  pára  n/a  15 320",
		"Děravá Lhota  U  uhlí  12,5  34  120  pára  ---  15 320",
	}

	page3 := []string{
		"Metodika výpočtu výsledných cen",
		"Ceny jsou uváděny bez DPH.",
	}

	return pdftext.FromLines(page1, page2, page3)
}

type stubFetcher struct {
	docs map[domain.Year]*pdftext.Document
}

func (s *stubFetcher) Fetch(_ context.Context, year domain.Year) (*pdftext.Document, error) {
	doc, ok := s.docs[year]
	if !ok {
		return nil, fmt.Errorf("report for %d not published", year)
	}
	return doc, nil
}

func newService(docs map[domain.Year]*pdftext.Document, policy ingest.Policy) *ingest.Service {
	return ingest.NewService(nil, catalog.Default(), &stubFetcher{docs: docs}, ingest.MergeOptions{Policy: policy})
}

func TestProcessYear(t *testing.T) {
	svc := newService(nil, ingest.PolicyKeepFirst)

	result, err := svc.ProcessYear(context.Background(), reportDoc(), 2021)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPartiallyAccepted, result.Status)
	assert.Len(t, result.Accepted(), 10)
	assert.Len(t, result.Rejected(), 2)
	assert.Equal(t, 12, result.TotalRows())
	assert.Equal(t, 3, result.Pages())

	for _, rej := range result.Rejected() {
		assert.Equal(t, domain.ReasonNumericParse, rej.Reason)
		assert.Equal(t, 2, rej.Page)
	}
}

// Accepted plus rejected always equals the number of raw rows the parser
// emitted, whatever the input looks like.
func TestProcessYearCompleteness(t *testing.T) {
	svc := newService(nil, ingest.PolicyKeepFirst)

	docs := []*pdftext.Document{
		reportDoc(),
		pdftext.FromLines([]string{headerLine}),
		pdftext.FromLines([]string{headerLine, "Cheb K", "Most U"}),
	}
	for _, doc := range docs {
		result, err := svc.ProcessYear(context.Background(), doc, 2021)
		require.NoError(t, err)
		assert.Equal(t, result.TotalRows(), len(result.Accepted())+len(result.Rejected()))
	}
}

func TestProcessYearRejectionOrderIsDeterministic(t *testing.T) {
	svc := newService(nil, ingest.PolicyKeepFirst)

	// Rejections on several pages; pages run concurrently but the report
	// comes back in (page, line) order every time.
	doc := pdftext.FromLines(
		[]string{headerLine, "Lhota A  U  uhlí  1  1  1  pára  n/a  1", "Lhota B  U  uhlí  1  1  1  pára  n/a  1"},
		[]string{headerLine, "Lhota C  U  uhlí  1  1  1  pára  n/a  1"},
		[]string{headerLine, "Lhota D  U  uhlí  1  1  1  pára  n/a  1"},
	)

	for i := 0; i < 10; i++ {
		result, err := svc.ProcessYear(context.Background(), doc, 2021)
		require.NoError(t, err)

		rejected := result.Rejected()
		require.Len(t, rejected, 4)
		assert.Equal(t, "Lhota A", rejected[0].Cells[0])
		assert.Equal(t, "Lhota B", rejected[1].Cells[0])
		assert.Equal(t, "Lhota C", rejected[2].Cells[0])
		assert.Equal(t, "Lhota D", rejected[3].Cells[0])
	}
}

func TestProcessYearNoTableFound(t *testing.T) {
	svc := newService(nil, ingest.PolicyKeepFirst)

	doc := pdftext.FromLines(
		[]string{"Výroční zpráva", "Žádná tabulka zde není."},
		[]string{"Ani zde."},
	)

	result, err := svc.ProcessYear(context.Background(), doc, 2021)

	require.Error(t, err)
	var notFound *domain.NoTableFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 2021, notFound.Year)
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusNoTableFound, result.Status)
}

func TestProcessYearEmptyTableIsNotAnError(t *testing.T) {
	svc := newService(nil, ingest.PolicyKeepFirst)

	result, err := svc.ProcessYear(context.Background(), pdftext.FromLines([]string{headerLine}), 2021)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartiallyAccepted, result.Status)
	assert.Zero(t, result.TotalRows())
}

func TestRunSkipsUnavailableYears(t *testing.T) {
	svc := newService(map[domain.Year]*pdftext.Document{
		2020: reportDoc(),
		2022: pdftext.FromLines([]string{"Jen text, žádná tabulka."}),
	}, ingest.PolicyKeepFirst)

	report, err := svc.Run(context.Background(), []domain.Year{2020, 2021, 2022})
	require.NoError(t, err)

	require.Len(t, report.Years, 3)
	assert.Equal(t, domain.StatusPartiallyAccepted, report.Years[0].Status)
	assert.Equal(t, domain.StatusUnavailable, report.Years[1].Status)
	assert.Equal(t, domain.StatusNoTableFound, report.Years[2].Status)

	assert.Equal(t, 10, report.Years[0].Accepted)
	assert.Equal(t, 2, report.Years[0].Rejected)
	assert.Len(t, report.Records, 10)
	assert.Len(t, report.Rejected, 2)
	assert.NotEmpty(t, report.RunID)
}

func TestRunIsolatesFailedYears(t *testing.T) {
	// 2005 predates the first catalog revision, so its pipeline errors
	// before parsing; the sibling year must still come through intact.
	svc := newService(map[domain.Year]*pdftext.Document{
		2005: reportDoc(),
		2020: reportDoc(),
	}, ingest.PolicyKeepFirst)

	report, err := svc.Run(context.Background(), []domain.Year{2005, 2020})
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, report.Years, 2)
	assert.Equal(t, domain.StatusFailed, report.Years[0].Status)
	assert.Contains(t, report.Years[0].Error, "no layout revision covers year 2005")
	assert.Equal(t, domain.StatusPartiallyAccepted, report.Years[1].Status)

	assert.Len(t, report.Records, 10)
	assert.Len(t, report.Rejected, 2)
}

func TestRunMergesAcrossYears(t *testing.T) {
	svc := newService(map[domain.Year]*pdftext.Document{
		2020: pdftext.FromLines([]string{headerLine, dataLine("Most", "U", 0)}),
		2021: pdftext.FromLines([]string{
			headerLine,
			dataLine("Most", "U", 1),
			dataLine("Most", "U", 2), // duplicate key within the year
		}),
	}, ingest.PolicyKeepFirst)

	report, err := svc.Run(context.Background(), []domain.Year{2020, 2021})
	require.NoError(t, err)

	// One record per (locality, year) key survives; the duplicate is a
	// collision, not a third record.
	require.Len(t, report.Records, 2)
	require.Len(t, report.Collisions, 1)
	assert.Equal(t, domain.Key{Year: 2021, Locality: "Most"}, report.Collisions[0].Key)
}

func TestRunIsIdempotent(t *testing.T) {
	docs := map[domain.Year]*pdftext.Document{2020: reportDoc()}

	first, err := newService(docs, ingest.PolicyKeepFirst).Run(context.Background(), []domain.Year{2020})
	require.NoError(t, err)
	second, err := newService(docs, ingest.PolicyKeepFirst).Run(context.Background(), []domain.Year{2020})
	require.NoError(t, err)

	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		assert.Equal(t, *first.Records[i], *second.Records[i])
	}
	assert.Equal(t, first.Rejected, second.Rejected)
}
