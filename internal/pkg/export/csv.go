// Package export writes the canonical dataset and rejection reports as
// CSV files, one per year plus a combined file, mirroring the layout the
// storage and dashboard collaborators consume.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ougirez/cenytepla/internal/domain"
)

type datasetRow struct {
	Year           domain.Year `csv:"year"`
	Locality       string      `csv:"locality"`
	Region         string      `csv:"region"`
	FuelType       string      `csv:"fuel_type"`
	DeliveryMethod string      `csv:"delivery_method"`
	Price          string      `csv:"price"`
	Unit           string      `csv:"unit"`
	QuantityGJ     string      `csv:"quantity_gj"`
	CapacityMW     string      `csv:"installed_capacity_mw"`
	DeliveryPoints string      `csv:"delivery_points"`
	Customers      string      `csv:"customers"`
}

type rejectionRow struct {
	Year     domain.Year `csv:"year"`
	Page     int         `csv:"page"`
	Line     int         `csv:"line"`
	RawCells string      `csv:"raw_cells"`
	Reason   string      `csv:"reason"`
	Detail   string      `csv:"detail"`
}

// WriteDataset writes the records to path in the canonical column order.
func WriteDataset(path string, records []*domain.HeatPriceRecord) error {
	rows := make([]*datasetRow, 0, len(records))
	for _, rec := range records {
		row := &datasetRow{
			Year:           rec.Year,
			Locality:       rec.Locality,
			Region:         string(rec.Region),
			FuelType:       string(rec.FuelType),
			DeliveryMethod: string(rec.DeliveryMethod),
			Price:          rec.Price.String(),
			Unit:           rec.Unit,
		}
		if rec.QuantityGJ != nil {
			row.QuantityGJ = rec.QuantityGJ.String()
		}
		if rec.InstalledCapacityMW != nil {
			row.CapacityMW = rec.InstalledCapacityMW.String()
		}
		if rec.DeliveryPoints != nil {
			row.DeliveryPoints = fmt.Sprintf("%d", *rec.DeliveryPoints)
		}
		if rec.Customers != nil {
			row.Customers = fmt.Sprintf("%d", *rec.Customers)
		}
		rows = append(rows, row)
	}

	return writeFile(path, &rows)
}

// WriteRejections writes a rejection report. Raw cells are joined with
// "|" so one rejected table row stays one CSV row.
func WriteRejections(path string, rejected []domain.RejectedRow) error {
	rows := make([]*rejectionRow, 0, len(rejected))
	for _, rej := range rejected {
		rows = append(rows, &rejectionRow{
			Year:     rej.Year,
			Page:     rej.Page,
			Line:     rej.Line,
			RawCells: strings.Join(rej.Cells, "|"),
			Reason:   string(rej.Reason),
			Detail:   rej.Detail,
		})
	}

	return writeFile(path, &rows)
}

// DatasetFileName names the per-year dataset files and the combined one
// covering every ingested year.
func DatasetFileName(dir string, year *domain.Year) string {
	if year != nil {
		return filepath.Join(dir, fmt.Sprintf("ceny_tepla_%d.csv", *year))
	}
	return filepath.Join(dir, "ceny_tepla_vsechny_roky.csv")
}

func RejectionsFileName(dir string, year *domain.Year) string {
	if year != nil {
		return filepath.Join(dir, fmt.Sprintf("odmitnute_radky_%d.csv", *year))
	}
	return filepath.Join(dir, "odmitnute_radky_vsechny_roky.csv")
}

func writeFile(path string, rows interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err = gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("gocsv.MarshalFile: %w", err)
	}
	return nil
}
