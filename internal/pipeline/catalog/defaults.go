package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/ougirez/cenytepla/internal/domain"
)

// DefaultUnit is the price basis of every ERÚ revision published so far.
const DefaultUnit = "Kč/GJ"

// DefaultPriceCeiling is the sanity ceiling in Kč/GJ. The highest locality
// price on record is well under 2000; an order of magnitude above that is
// a parse artifact, not a price.
var DefaultPriceCeiling = decimal.NewFromInt(10000)

// Default returns the built-in catalog covering the published report
// revisions. 2010 reports fuel as percentage-share columns; the 2018
// revision switched to a categorical fuel column and reworded the header.
func Default() *Catalog {
	return New(
		Layout{
			Year:           2010,
			Unit:           DefaultUnit,
			HeaderKeywords: []string{"cenova lokalita", "kraj", "cena", "dodavky", "palivo"},
			HeaderMinHits:  2,
			FooterKeywords: defaultFooterKeywords(),
			Columns: []Field{
				FieldLocality, FieldRegion,
				FieldShareCoal, FieldShareBiomass, FieldShareWaste, FieldShareGas, FieldShareOther,
				FieldCapacity, FieldDeliveryPoints, FieldCustomers,
				FieldDelivery, FieldPrice, FieldQuantity,
			},
			MinColumns:       11,
			PriceCeiling:     DefaultPriceCeiling,
			FuelSynonyms:     defaultFuelSynonyms(),
			DeliverySynonyms: defaultDeliverySynonyms(),
			RegionSynonyms:   defaultRegionSynonyms(),
		},
		Layout{
			Year:           2018,
			Unit:           DefaultUnit,
			HeaderKeywords: []string{"cenova lokalita", "kraj", "prevazne palivo", "zpusob dodavky", "cena tepla"},
			HeaderMinHits:  2,
			FooterKeywords: defaultFooterKeywords(),
			Columns: []Field{
				FieldLocality, FieldRegion, FieldFuel,
				FieldCapacity, FieldDeliveryPoints, FieldCustomers,
				FieldDelivery, FieldPrice, FieldQuantity,
			},
			MinColumns:       7,
			PriceCeiling:     DefaultPriceCeiling,
			FuelSynonyms:     defaultFuelSynonyms(),
			DeliverySynonyms: defaultDeliverySynonyms(),
			RegionSynonyms:   defaultRegionSynonyms(),
		},
	)
}

func defaultHeaderKeywords() []string {
	return []string{"cenova lokalita", "kraj", "cena", "dodavky"}
}

func defaultFooterKeywords() []string {
	return []string{"energeticky regulacni urad", "zdroj:", "strana", "vysledne ceny"}
}

// Synonym keys are matched after whitespace collapsing, lowercasing and
// diacritic stripping, so "Zemní plyn" and "zemni plyn" are one entry.
func defaultFuelSynonyms() map[string]domain.FuelType {
	return map[string]domain.FuelType{
		"uhli":            domain.FuelCoal,
		"cerne uhli":      domain.FuelCoal,
		"hnede uhli":      domain.FuelCoal,
		"tuha paliva":     domain.FuelCoal,
		"zemni plyn":      domain.FuelGas,
		"plyn":            domain.FuelGas,
		"topny olej":      domain.FuelOther,
		"biomasa":         domain.FuelBiomass,
		"stepka":          domain.FuelBiomass,
		"drevni stepka":   domain.FuelBiomass,
		"odpad":           domain.FuelWasteHeat,
		"odpadni teplo":   domain.FuelWasteHeat,
		"komunalni odpad": domain.FuelWasteHeat,
		"jina paliva":     domain.FuelOther,
		"ostatni":         domain.FuelOther,
		"jine":            domain.FuelOther,
	}
}

func defaultDeliverySynonyms() map[string]domain.DeliveryMethod {
	return map[string]domain.DeliveryMethod{
		"horka voda":    domain.DeliveryHotWater,
		"tepla voda":    domain.DeliveryHotWater,
		"horkovod":      domain.DeliveryHotWater,
		"teplovod":      domain.DeliveryHotWater,
		"voda":          domain.DeliveryHotWater,
		"hot water":     domain.DeliveryHotWater,
		"para":          domain.DeliverySteam,
		"parni dodavka": domain.DeliverySteam,
		"parovod":       domain.DeliverySteam,
		"steam":         domain.DeliverySteam,
	}
}

func defaultRegionSynonyms() map[string]domain.RegionCode {
	syn := make(map[string]domain.RegionCode, 3*len(domain.RegionNames))
	for code := range domain.RegionNames {
		syn[foldASCII(string(code))] = code
	}
	// Full-name spellings as they appear in older report revisions.
	for k, v := range map[string]domain.RegionCode{
		"hlavni mesto praha":   "A",
		"praha":                "A",
		"jihomoravsky kraj":    "B",
		"jihocesky kraj":       "C",
		"pardubicky kraj":      "E",
		"kralovehradecky kraj": "H",
		"kraj vysocina":        "J",
		"vysocina":             "J",
		"karlovarsky kraj":     "K",
		"liberecky kraj":       "L",
		"olomoucky kraj":       "M",
		"plzensky kraj":        "P",
		"stredocesky kraj":     "S",
		"moravskoslezsky kraj": "T",
		"ustecky kraj":         "U",
		"zlinsky kraj":         "Z",
	} {
		syn[k] = v
	}
	return syn
}

func foldASCII(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
