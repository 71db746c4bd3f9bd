package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/ougirez/cenytepla/internal/api"
	"github.com/ougirez/cenytepla/internal/pipeline/catalog"
	"github.com/ougirez/cenytepla/internal/pkg/constants"
	"github.com/ougirez/cenytepla/internal/pkg/logger"
	"github.com/ougirez/cenytepla/internal/pkg/observability"
	"github.com/ougirez/cenytepla/internal/pkg/store"
	"github.com/ougirez/cenytepla/internal/pkg/store/xpgx"
	"github.com/ougirez/cenytepla/internal/service/fetcher"
	"github.com/ougirez/cenytepla/internal/service/ingest"
)

func main() {
	ctx := context.Background()

	initConfig()
	logger.Init(false)
	defer logger.Sync()

	observability.Start(viper.GetString(constants.ViperKeyMetricsPort))

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperKeyDatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	st := store.NewStore(pool)

	cat := catalog.Default()
	if path := viper.GetString(constants.ViperKeyLayoutCatalog); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			logger.Fatal(ctx, err)
		}
	}

	fetch := fetcher.New(
		viper.GetString(constants.ViperKeyReportsURL),
		viper.GetString(constants.ViperKeyReportsDir),
	)

	ingestService := ingest.NewService(st, cat, fetch, ingest.MergeOptions{
		Policy: ingest.PolicyKeepFirst,
	})

	apiService, err := api.NewAPIService(st, ingestService)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	apiService.Serve(viper.GetString(constants.ViperKeyHTTPAddr))
}

func initConfig() {
	viper.SetDefault(constants.ViperKeyHTTPAddr, ":8080")
	viper.SetDefault(constants.ViperKeyMetricsPort, "9090")
	viper.SetDefault(constants.ViperKeyReportsURL, "https://eru.gov.cz/vyslednecenytepla")
	viper.SetDefault(constants.ViperKeyReportsDir, "data/pdf")
	viper.SetDefault(constants.ViperKeyCSVDir, "data/csv")
	viper.AutomaticEnv()
}
