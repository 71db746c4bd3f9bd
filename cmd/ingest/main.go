// Batch ingest: fetches the requested report years, runs the extraction
// pipeline, writes the CSV outputs and (when a database is configured)
// loads the merged dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pkg/constants"
	"github.com/ougirez/cenytepla/internal/pkg/export"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
	"github.com/ougirez/cenytepla/internal/pkg/observability"
	"github.com/ougirez/cenytepla/internal/pkg/store"
	"github.com/ougirez/cenytepla/internal/pkg/store/xpgx"
	"github.com/ougirez/cenytepla/internal/service/fetcher"
	"github.com/ougirez/cenytepla/internal/service/ingest"
)

func main() {
	var (
		yearsFlag = flag.String("years", "", "comma-separated report years, e.g. 2019,2020,2021")
		allFlag   = flag.Bool("all", false, "ingest every year linked from the publication page")
		policy    = flag.String("merge-policy", string(ingest.PolicyKeepFirst), "duplicate-key policy: keep_first or plausible_price")
	)
	flag.Parse()

	ctx := context.Background()

	initConfig()
	logger.Init(false)
	defer logger.Sync()

	observability.Start(viper.GetString(constants.ViperKeyMetricsPort))

	fetch := fetcher.New(
		viper.GetString(constants.ViperKeyReportsURL),
		viper.GetString(constants.ViperKeyReportsDir),
	)

	years, err := resolveYears(ctx, fetch, *yearsFlag, *allFlag)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	var st store.Store
	if dsn := viper.GetString(constants.ViperKeyDatabaseDSN); dsn != "" {
		pool, poolErr := xpgx.NewPool(ctx, dsn)
		if poolErr != nil {
			logger.Fatal(ctx, poolErr)
		}
		defer pool.Close()
		st = store.NewStore(pool)
	}

	cat := catalog.Default()
	if path := viper.GetString(constants.ViperKeyLayoutCatalog); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			logger.Fatal(ctx, err)
		}
	}

	svc := ingest.NewService(st, cat, fetch, ingest.MergeOptions{
		Policy: ingest.Policy(*policy),
	})

	report, err := svc.Run(ctx, years)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	if err = writeCSVs(report); err != nil {
		logger.Fatal(ctx, err)
	}

	for _, yr := range report.Years {
		logger.Infof(ctx, "year %d: %s, accepted=%d rejected=%d", yr.Year, yr.Status, yr.Accepted, yr.Rejected)
	}
	logger.Infof(ctx, "run %s: %d records merged, %d collisions", report.RunID, len(report.Records), len(report.Collisions))
}

func resolveYears(ctx context.Context, fetch *fetcher.Service, yearsFlag string, all bool) ([]domain.Year, error) {
	if all {
		return fetch.AvailableYears(ctx)
	}

	var years []domain.Year
	for _, part := range strings.Split(yearsFlag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no years requested: pass -years or -all")
	}
	return years, nil
}

func writeCSVs(report *ingest.RunReport) error {
	dir := viper.GetString(constants.ViperKeyCSVDir)

	byYear := make(map[domain.Year][]*domain.HeatPriceRecord)
	for _, rec := range report.Records {
		byYear[rec.Year] = append(byYear[rec.Year], rec)
	}
	for year, recs := range byYear {
		year := year
		if err := export.WriteDataset(export.DatasetFileName(dir, &year), recs); err != nil {
			return err
		}
	}
	if err := export.WriteDataset(export.DatasetFileName(dir, nil), report.Records); err != nil {
		return err
	}

	rejByYear := make(map[domain.Year][]domain.RejectedRow)
	for _, rej := range report.Rejected {
		rejByYear[rej.Year] = append(rejByYear[rej.Year], rej)
	}
	for year, rows := range rejByYear {
		year := year
		if err := export.WriteRejections(export.RejectionsFileName(dir, &year), rows); err != nil {
			return err
		}
	}
	return export.WriteRejections(export.RejectionsFileName(dir, nil), report.Rejected)
}

func initConfig() {
	viper.SetDefault(constants.ViperKeyMetricsPort, "9091")
	viper.SetDefault(constants.ViperKeyReportsURL, "https://eru.gov.cz/vyslednecenytepla")
	viper.SetDefault(constants.ViperKeyReportsDir, "data/pdf")
	viper.SetDefault(constants.ViperKeyCSVDir, "data/csv")
	viper.AutomaticEnv()
}
