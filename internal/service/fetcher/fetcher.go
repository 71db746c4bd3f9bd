// Package fetcher acquires the regulator's yearly report PDFs: it
// discovers links on the publication page and keeps a local file cache.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/pdftext"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
)

// FilePrefix is the regulator's report naming convention; the four-digit
// year follows it.
const FilePrefix = "vyslednecenytepla"

var fileNameRe = regexp.MustCompile(FilePrefix + `(\d{4})\.pdf$`)

// YearFromFilename extracts the reporting year from a report filename.
func YearFromFilename(name string) (domain.Year, bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	year := 0
	for _, c := range m[1] {
		year = year*10 + int(c-'0')
	}
	return year, true
}

type Service struct {
	baseURL string
	dir     string
	client  *http.Client
}

func New(baseURL, dir string) *Service {
	return &Service{
		baseURL: baseURL,
		dir:     dir,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Fetch returns the extracted document for one year, downloading the PDF
// first unless it is already cached on disk.
func (s *Service) Fetch(ctx context.Context, year domain.Year) (*pdftext.Document, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%s%d.pdf", FilePrefix, year))

	if _, err := os.Stat(path); err != nil {
		link, err := s.discoverLink(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("discoverLink: %w", err)
		}
		if err = s.download(ctx, link, path); err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		logger.Infof(ctx, "downloaded %s report to %s", FilePrefix, path)
	}

	doc, err := pdftext.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext.Open: %w", err)
	}
	return doc, nil
}

// AvailableYears lists every report year linked from the publication page.
func (s *Service) AvailableYears(ctx context.Context) ([]domain.Year, error) {
	doc, err := s.getPage(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.Year]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if year, ok := YearFromFilename(href); ok {
			seen[year] = true
		}
	})

	years := make([]domain.Year, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func (s *Service) discoverLink(ctx context.Context, year domain.Year) (string, error) {
	doc, err := s.getPage(ctx, s.baseURL)
	if err != nil {
		return "", err
	}

	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if y, ok := YearFromFilename(href); ok && y == year {
			link = href
			return false
		}
		return true
	})
	if link == "" {
		return "", fmt.Errorf("no report link for year %d on %s", year, s.baseURL)
	}

	resolved, err := s.resolve(link)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func (s *Service) resolve(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (s *Service) getPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var resp *http.Response
	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = s.client.Do(req)
			if httpErr != nil {
				return fmt.Errorf("client.Do: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}
	return doc, nil
}

func (s *Service) download(ctx context.Context, link, path string) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	var resp *http.Response
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = s.client.Do(req)
			if httpErr != nil {
				return fmt.Errorf("client.Do: %w", httpErr)
			}
			if resp.StatusCode != http.StatusOK {
				_ = resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
			ctx,
		),
	)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close body: %w", closeErr)
		}
	}()

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}

	if _, err = io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %w", err)
	}

	return os.Rename(tmp, path)
}
