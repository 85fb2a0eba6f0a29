package enrichment

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestPolicy_Enrich(t *testing.T) {
	confirmedPricing := &models.Pricing{CurrencyCode: "USD", CustomerPrice: 10, RetailPrice: 12, MapPrice: 11}
	confirmedAvailability := &models.Availability{
		Available:               true,
		TotalAvailability:       3,
		AvailabilityByWarehouse: []models.WarehouseAvailability{{WarehouseID: "20", QuantityAvailable: 3}},
	}

	testCases := []struct {
		TestName   string
		Production bool
		Demo       bool
		Record     models.PriceAvailability
		Check      func(t *testing.T, in, out models.PriceAvailability)
	}{
		{
			TestName:   "Success. Production passes records through #1",
			Production: true,
			Record:     models.PriceAvailability{IngramPartNumber: "ABC123"},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(in, out); diff != "" {
					t.Errorf("Record changed in production (-want +got):\n%s", diff)
				}
			},
		},
		{
			TestName:   "Success. Production ignores demo toggle #2",
			Production: true,
			Demo:       true,
			Record:     models.PriceAvailability{IngramPartNumber: "6YE881", Pricing: &models.Pricing{}},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(in, out); diff != "" {
					t.Errorf("Record changed in production (-want +got):\n%s", diff)
				}
			},
		},
		{
			TestName: "Success. Not found record is skipped #3",
			Record:   models.PriceAvailability{IngramPartNumber: "NOPE00", ProductStatusCode: models.ProductStatusNotFound},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if out.Pricing != nil || out.Availability != nil {
					t.Errorf("Not found record must not be enriched: %+v", out)
				}
			},
		},
		{
			TestName: "Success. Empty blocks synthesized #4",
			Record:   models.PriceAvailability{IngramPartNumber: "ZZ9999", Pricing: &models.Pricing{CurrencyCode: "USD"}},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				checkSynthesized(t, out)
			},
		},
		{
			TestName: "Success. Only missing availability is filled from demo data #5",
			Record:   models.PriceAvailability{IngramPartNumber: "6YE881", Pricing: confirmedPricing},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(confirmedPricing, out.Pricing); diff != "" {
					t.Errorf("Present pricing must be untouched (-want +got):\n%s", diff)
				}
				if out.Availability == nil || out.Availability.TotalAvailability != 59 || len(out.Availability.AvailabilityByWarehouse) != 2 {
					t.Errorf("Expected demo availability, got: %+v", out.Availability)
				}
			},
		},
		{
			TestName: "Success. Only missing pricing is filled #6",
			Record:   models.PriceAvailability{IngramPartNumber: "ZZ0001", Availability: confirmedAvailability},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(confirmedAvailability, out.Availability); diff != "" {
					t.Errorf("Present availability must be untouched (-want +got):\n%s", diff)
				}
				if HasNoPricing(out.Pricing) {
					t.Errorf("Expected pricing to be filled, got: %+v", out.Pricing)
				}
			},
		},
		{
			TestName: "Success. Complete record is untouched #7",
			Record:   models.PriceAvailability{IngramPartNumber: "6YE881", Pricing: confirmedPricing, Availability: confirmedAvailability},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(in, out); diff != "" {
					t.Errorf("Complete record changed (-want +got):\n%s", diff)
				}
			},
		},
		{
			TestName: "Success. Demo toggle overwrites complete record #8",
			Demo:     true,
			Record:   models.PriceAvailability{IngramPartNumber: "3DB127", Pricing: confirmedPricing, Availability: confirmedAvailability},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if out.Pricing.CustomerPrice != 229.50 || out.Availability.TotalAvailability != 120 {
					t.Errorf("Expected demo values, got: %+v %+v", out.Pricing, out.Availability)
				}
			},
		},
		{
			TestName: "Success. Demo toggle still skips not found #9",
			Demo:     true,
			Record:   models.PriceAvailability{IngramPartNumber: "3DB127", ProductStatusCode: models.ProductStatusNotFound},
			Check: func(t *testing.T, in, out models.PriceAvailability) {
				if diff := cmp.Diff(in, out); diff != "" {
					t.Errorf("Not found record changed (-want +got):\n%s", diff)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			policy := NewPolicy(tc.Production, tc.Demo)
			out := enrichRecords(t, policy, []models.PriceAvailability{tc.Record})
			if len(out) != 1 {
				t.Fatalf("Expected one record, got: %d", len(out))
			}
			tc.Check(t, tc.Record, out[0])
		})
	}
}

func enrichRecords(t *testing.T, policy *Policy, records []models.PriceAvailability) []models.PriceAvailability {
	t.Helper()
	raw, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Failed to encode records: %v", err)
	}
	var out []models.PriceAvailability
	if err := json.Unmarshal(policy.Enrich(raw), &out); err != nil {
		t.Fatalf("Failed to decode enriched records: %v", err)
	}
	return out
}

func checkSynthesized(t *testing.T, out models.PriceAvailability) {
	t.Helper()
	if out.Pricing == nil || out.Availability == nil {
		t.Fatalf("Expected both blocks, got: %+v", out)
	}
	customer := decimal.NewFromFloat(out.Pricing.CustomerPrice)
	if customer.LessThan(decimal.NewFromInt(minCustomerPrice)) || customer.GreaterThan(decimal.NewFromInt(maxCustomerPrice)) {
		t.Errorf("Customer price out of band: %v", customer)
	}
	if want := customer.Mul(retailMarkup).Round(2).InexactFloat64(); out.Pricing.RetailPrice != want {
		t.Errorf("Expected retail %v, got: %v", want, out.Pricing.RetailPrice)
	}
	if want := customer.Mul(mapMarkup).Round(2).InexactFloat64(); out.Pricing.MapPrice != want {
		t.Errorf("Expected map %v, got: %v", want, out.Pricing.MapPrice)
	}
	if len(out.Availability.AvailabilityByWarehouse) != 1 {
		t.Fatalf("Expected one warehouse, got: %+v", out.Availability.AvailabilityByWarehouse)
	}
	qty := out.Availability.AvailabilityByWarehouse[0].QuantityAvailable
	if qty < minQuantity || qty > maxQuantity || out.Availability.TotalAvailability != qty || !out.Availability.Available {
		t.Errorf("Unexpected availability: %+v", out.Availability)
	}
}

func TestPolicy_SynthesizedValuesAreStable(t *testing.T) {
	policy := NewPolicy(false, false)
	records := []models.PriceAvailability{{IngramPartNumber: "QWERTY"}}

	first := enrichRecords(t, policy, records)
	second := enrichRecords(t, policy, records)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Synthesized values differ between calls (-first +second):\n%s", diff)
	}
	if records[0].Pricing != nil {
		t.Errorf("Input records must not be mutated")
	}
	checkSynthesized(t, first[0])
}

func TestPolicy_SynthesizedBands(t *testing.T) {
	policy := NewPolicy(false, false)
	records := make([]models.PriceAvailability, 0, 200)
	for i := 0; i < 200; i++ {
		records = append(records, models.PriceAvailability{IngramPartNumber: "P" + strconv.Itoa(i)})
	}
	for _, out := range enrichRecords(t, policy, records) {
		checkSynthesized(t, out)
	}
}

func TestPolicy_DemoAvailabilityIsCopied(t *testing.T) {
	policy := NewPolicy(false, false)
	out := enrichRecords(t, policy, []models.PriceAvailability{{IngramPartNumber: "1KX432"}})
	out[0].Availability.AvailabilityByWarehouse[0].QuantityAvailable = 0

	again := enrichRecords(t, policy, []models.PriceAvailability{{IngramPartNumber: "1KX432"}})
	if again[0].Availability.AvailabilityByWarehouse[0].QuantityAvailable != 310 {
		t.Errorf("Demo dataset was mutated through a returned record")
	}
}

func TestPolicy_NilInput(t *testing.T) {
	if out := NewPolicy(false, true).Enrich(nil); out != nil {
		t.Errorf("Expected nil, got: %v", out)
	}
}

func TestPolicy_EnrichKeepsUpstreamFields(t *testing.T) {
	upstream := `[{"ingramPartNumber":"6YE881","productAuthorized":true,"discounts":[{"type":"special","amount":5}],` +
		`"pricing":{"customerPrice":0,"webDiscountsAvailable":true},` +
		`"availability":{"available":true,"totalAvailability":3,"availabilityByWarehouse":[{"warehouseId":"10","quantityAvailable":3,"quantityOnOrder":7}]}}]`

	var out []map[string]any
	if err := json.Unmarshal(NewPolicy(false, false).Enrich([]byte(upstream)), &out); err != nil {
		t.Fatalf("Failed to decode enriched body: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Expected one record, got: %d", len(out))
	}
	record := out[0]
	if record["productAuthorized"] != true || record["discounts"] == nil {
		t.Errorf("Unknown record fields were dropped: %v", record)
	}
	pricing := record["pricing"].(map[string]any)
	if pricing["webDiscountsAvailable"] != true || pricing["customerPrice"] != 1149.0 {
		t.Errorf("Expected demo pricing over upstream block, got: %v", pricing)
	}
	warehouses := record["availability"].(map[string]any)["availabilityByWarehouse"].([]any)
	if qty := warehouses[0].(map[string]any)["quantityOnOrder"]; qty != 7.0 {
		t.Errorf("Present availability must be untouched, got: %v", warehouses)
	}
}

func TestPolicy_EnrichPassesThrough(t *testing.T) {
	testCases := []struct {
		TestName   string
		Production bool
		Body       string
	}{
		{
			TestName:   "Success. Production body is returned byte for byte #1",
			Production: true,
			Body:       `[ {"ingramPartNumber":"6YE881", "pricing":{"customerPrice":0}, "extra":[1,2]} ]`,
		},
		{
			TestName: "Success. Unexpected field type leaves the record as is #2",
			Body:     `[{"ingramPartNumber":"6YE881","pricing":{"customerPrice":"10.00"}}]`,
		},
		{
			TestName: "Success. Non array body is returned as is #3",
			Body:     `{"records":[{"ingramPartNumber":"6YE881"}]}`,
		},
		{
			TestName: "Success. Null record is returned as is #4",
			Body:     `[null]`,
		},
		{
			TestName: "Success. Complete record keeps upstream formatting #5",
			Body:     `[{"ingramPartNumber":"X1", "pricing":{"customerPrice":10.5}, "availability":{"totalAvailability":2,"availabilityByWarehouse":[{"warehouseId":"10","quantityAvailable":2}]}}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			out := NewPolicy(tc.Production, false).Enrich([]byte(tc.Body))
			if string(out) != tc.Body {
				t.Errorf("Expected body: '%s', got: '%s'", tc.Body, out)
			}
		})
	}
}

func TestHasNo(t *testing.T) {
	if !HasNoPricing(&models.Pricing{RetailPrice: 10}) {
		t.Errorf("Zero customer price must count as missing pricing")
	}
	if !HasNoAvailability(&models.Availability{Available: true, TotalAvailability: 5}) {
		t.Errorf("Empty warehouse list must count as missing availability")
	}
	if !HasNoAvailability(&models.Availability{AvailabilityByWarehouse: []models.WarehouseAvailability{{WarehouseID: "10"}}}) {
		t.Errorf("Zero total must count as missing availability")
	}
}
