package enrichment

import "github.com/denmor86/ya-reseller/internal/models"

// DemoProduct - заранее подготовленные цена и наличие для демонстрационных номеров товаров
type DemoProduct struct {
	Pricing      models.Pricing
	Availability warehouseAvailability
}

type warehouseAvailability []models.WarehouseAvailability

func (w warehouseAvailability) clone() *models.Availability {
	warehouses := make([]models.WarehouseAvailability, len(w))
	copy(warehouses, w)

	total := 0
	for _, wh := range warehouses {
		total += wh.QuantityAvailable
	}
	return &models.Availability{
		Available:               total > 0,
		TotalAvailability:       total,
		AvailabilityByWarehouse: warehouses,
	}
}

var demoDataset = map[string]DemoProduct{
	"6YE881": {
		Pricing: models.Pricing{CurrencyCode: "USD", CustomerPrice: 1149.00, RetailPrice: 1499.99, MapPrice: 1299.00},
		Availability: warehouseAvailability{
			{WarehouseID: "10", Location: "Mira Loma, CA", QuantityAvailable: 42},
			{WarehouseID: "40", Location: "Millington, TN", QuantityAvailable: 17},
		},
	},
	"3DB127": {
		Pricing: models.Pricing{CurrencyCode: "USD", CustomerPrice: 229.50, RetailPrice: 299.99, MapPrice: 264.99},
		Availability: warehouseAvailability{
			{WarehouseID: "10", Location: "Mira Loma, CA", QuantityAvailable: 120},
		},
	},
	"1KX432": {
		Pricing: models.Pricing{CurrencyCode: "USD", CustomerPrice: 54.25, RetailPrice: 69.99, MapPrice: 62.99},
		Availability: warehouseAvailability{
			{WarehouseID: "30", Location: "Carol Stream, IL", QuantityAvailable: 310},
			{WarehouseID: "80", Location: "Jonestown, PA", QuantityAvailable: 95},
		},
	},
	"9VN663": {
		Pricing: models.Pricing{CurrencyCode: "USD", CustomerPrice: 1789.00, RetailPrice: 2199.00, MapPrice: 1999.00},
		Availability: warehouseAvailability{
			{WarehouseID: "40", Location: "Millington, TN", QuantityAvailable: 8},
		},
	},
}
