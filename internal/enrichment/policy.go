package enrichment

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/shopspring/decimal"
)

const (
	minCustomerPrice = 99
	maxCustomerPrice = 1999
	minQuantity      = 5
	maxQuantity      = 150

	defaultCurrency  = "USD"
	defaultWarehouse = "10"
	defaultLocation  = "Mira Loma, CA"
)

var (
	retailMarkup = decimal.RequireFromString("1.30")
	mapMarkup    = decimal.RequireFromString("1.15")
)

// Policy - дозаполнение цены и наличия для данных песочницы.
// В боевом окружении записи не изменяются.
type Policy struct {
	production bool
	demo       bool
	dataset    map[string]DemoProduct
}

func NewPolicy(production, demo bool) *Policy {
	return &Policy{
		production: production,
		demo:       demo,
		dataset:    demoDataset,
	}
}

// Active - будет ли политика изменять записи
func (p *Policy) Active() bool {
	return p != nil && !p.production
}

// Enrich - дозаполняет пустые блоки цены и наличия в ответе апстрима.
// Работает поверх исходного JSON: поля, не описанные в моделях, сохраняются.
// Никогда не возвращает ошибку: тело или запись неожиданной формы остаются как есть.
func (p *Policy) Enrich(raw []byte) []byte {
	if !p.Active() {
		return raw
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warnw("Enrichment skipped, unexpected response shape", "error", err)
		return raw
	}

	changed := false
	for i, record := range records {
		enriched, err := p.enrichRecord(record)
		if err != nil {
			logger.Warnw("Enrichment skipped", "record", i, "error", err)
			continue
		}
		if enriched != nil {
			records[i] = enriched
			changed = true
		}
	}
	if !changed {
		return raw
	}

	body, err := json.Marshal(records)
	if err != nil {
		logger.Warnw("Enrichment skipped", "error", err)
		return raw
	}
	return body
}

// enrichRecord - nil без ошибки означает, что запись не требует изменений
func (p *Policy) enrichRecord(raw json.RawMessage) (out json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("unexpected record shape: %v", r)
		}
	}()

	var record models.PriceAvailability
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil || record.NotFound() {
		return nil, nil
	}

	fillPricing := p.demo || HasNoPricing(record.Pricing)
	fillAvailability := p.demo || HasNoAvailability(record.Availability)
	if !fillPricing && !fillAvailability {
		return nil, nil
	}

	demo, ok := p.dataset[record.IngramPartNumber]
	if !ok {
		demo = synthesize(record.IngramPartNumber)
	}
	if fillPricing {
		if fields["pricing"], err = overlay(fields["pricing"], demo.Pricing); err != nil {
			return nil, err
		}
	}
	if fillAvailability {
		if fields["availability"], err = overlay(fields["availability"], demo.Availability.clone()); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

// overlay - записывает поля блока поверх существующего объекта, прочие его поля сохраняются
func overlay(existing json.RawMessage, block any) (json.RawMessage, error) {
	encoded, err := json.Marshal(block)
	if err != nil {
		return nil, err
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &values); err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	// null или не объект заменяется целиком
	if err := json.Unmarshal(existing, &merged); err != nil || merged == nil {
		merged = make(map[string]json.RawMessage, len(values))
	}
	for key, value := range values {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// HasNoPricing - блока цен нет или цена для реселлера не указана
func HasNoPricing(pricing *models.Pricing) bool {
	return pricing == nil || *pricing == (models.Pricing{}) || pricing.CustomerPrice <= 0
}

// HasNoAvailability - блока наличия нет, список складов пуст или общее количество нулевое
func HasNoAvailability(availability *models.Availability) bool {
	return availability == nil ||
		len(availability.AvailabilityByWarehouse) == 0 ||
		availability.TotalAvailability <= 0
}

// synthesize - правдоподобные значения для товара без демо-данных.
// Генератор инициализируется номером товара, поэтому значения стабильны между запросами.
func synthesize(partNumber string) DemoProduct {
	h := fnv.New64a()
	_, _ = h.Write([]byte(partNumber))
	rnd := rand.New(rand.NewSource(int64(h.Sum64())))

	cents := minCustomerPrice*100 + rnd.Intn((maxCustomerPrice-minCustomerPrice)*100+1)
	customer := decimal.New(int64(cents), -2)
	quantity := minQuantity + rnd.Intn(maxQuantity-minQuantity+1)

	return DemoProduct{
		Pricing: models.Pricing{
			CurrencyCode:  defaultCurrency,
			CustomerPrice: customer.InexactFloat64(),
			RetailPrice:   customer.Mul(retailMarkup).Round(2).InexactFloat64(),
			MapPrice:      customer.Mul(mapMarkup).Round(2).InexactFloat64(),
		},
		Availability: warehouseAvailability{
			{WarehouseID: defaultWarehouse, Location: defaultLocation, QuantityAvailable: quantity},
		},
	}
}
