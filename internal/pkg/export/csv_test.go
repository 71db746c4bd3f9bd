package export_test

import (
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ougirez/cenytepla/internal/domain"
	"github.com/ougirez/cenytepla/internal/pkg/export"
)

func TestWriteDataset(t *testing.T) {
	quantity := decimal.NewFromInt(15320)
	points := 34

	year := 2021
	path := export.DatasetFileName(t.TempDir(), &year)
	err := export.WriteDataset(path, []*domain.HeatPriceRecord{
		{
			Year:           2021,
			Locality:       "Ústí nad Labem",
			Region:         "U",
			FuelType:       domain.FuelGas,
			DeliveryMethod: domain.DeliverySteam,
			Price:          decimal.RequireFromString("623.5"),
			Unit:           "Kč/GJ",
			QuantityGJ:     &quantity,
			DeliveryPoints: &points,
		},
		{
			Year:           2021,
			Locality:       "Cheb",
			Region:         "K",
			FuelType:       domain.FuelCoal,
			DeliveryMethod: domain.DeliveryHotWater,
			Price:          decimal.NewFromInt(480),
			Unit:           "Kč/GJ",
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "ceny_tepla_2021.csv"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year,locality,region,fuel_type,delivery_method,price,unit,quantity_gj,installed_capacity_mw,delivery_points,customers", lines[0])
	assert.Equal(t, "2021,Ústí nad Labem,U,gas,steam,623.5,Kč/GJ,15320,,34,", lines[1])
	assert.Equal(t, "2021,Cheb,K,coal,hot-water,480,Kč/GJ,,,,", lines[2])
}

func TestWriteRejections(t *testing.T) {
	path := export.RejectionsFileName(t.TempDir(), nil)
	err := export.WriteRejections(path, []domain.RejectedRow{
		{
			Year:   2021,
			Page:   2,
			Line:   5,
			Cells:  []string{"Vadná Lhota", "U", "uhlí", "", "", "", "pára", "n/a", ""},
			Reason: domain.ReasonNumericParse,
			Detail: `price "n/a": no parsable number in cell`,
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "odmitnute_radky_vsechny_roky.csv"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "year,page,line,raw_cells,reason,detail", lines[0])
	assert.Contains(t, lines[1], "Vadná Lhota|U|uhlí|||")
	assert.Contains(t, lines[1], "numeric_parse")
}

func TestFileNames(t *testing.T) {
	year := 2019
	assert.Equal(t, "out/ceny_tepla_2019.csv", export.DatasetFileName("out", &year))
	assert.Equal(t, "out/ceny_tepla_vsechny_roky.csv", export.DatasetFileName("out", nil))
	assert.Equal(t, "out/odmitnute_radky_2019.csv", export.RejectionsFileName("out", &year))
	assert.Equal(t, "out/odmitnute_radky_vsechny_roky.csv", export.RejectionsFileName("out", nil))
}
