package models

// ProductStatusNotFound - код статуса, которым апстрим помечает несуществующий номер товара
const ProductStatusNotFound = "E"

// PriceAvailabilityRequest - запрос цены и наличия
type PriceAvailabilityRequest struct {
	Products []ProductQuery `json:"products" validate:"required,min=1,max=50,dive"`
}

// ProductQuery - номер товара в запросе цены и наличия
type ProductQuery struct {
	IngramPartNumber string `json:"ingramPartNumber" validate:"required,partnumber"`
	Quantity         int    `json:"quantity,omitempty" validate:"gte=0"`
}

// PriceAvailability - цена и наличие по одному номеру товара
type PriceAvailability struct {
	IngramPartNumber     string        `json:"ingramPartNumber"`
	VendorPartNumber     string        `json:"vendorPartNumber,omitempty"`
	CustomerPartNumber   string        `json:"customerPartNumber,omitempty"`
	UPC                  string        `json:"upc,omitempty"`
	VendorName           string        `json:"vendorName,omitempty"`
	Description          string        `json:"description,omitempty"`
	ProductClass         string        `json:"productClass,omitempty"`
	ProductStatusCode    string        `json:"productStatusCode,omitempty"`
	ProductStatusMessage string        `json:"productStatusMessage,omitempty"`
	Pricing              *Pricing      `json:"pricing,omitempty"`
	Availability         *Availability `json:"availability,omitempty"`
}

// NotFound - апстрим пометил номер товара как несуществующий
func (p PriceAvailability) NotFound() bool {
	return p.ProductStatusCode == ProductStatusNotFound
}

// Pricing - блок цен
type Pricing struct {
	CurrencyCode  string  `json:"currencyCode,omitempty"`
	RetailPrice   float64 `json:"retailPrice,omitempty"`
	MapPrice      float64 `json:"mapPrice,omitempty"`
	CustomerPrice float64 `json:"customerPrice,omitempty"`
}

// Availability - блок наличия
type Availability struct {
	Available               bool                    `json:"available"`
	TotalAvailability       int                     `json:"totalAvailability"`
	AvailabilityByWarehouse []WarehouseAvailability `json:"availabilityByWarehouse,omitempty"`
}

// WarehouseAvailability - наличие на конкретном складе
type WarehouseAvailability struct {
	WarehouseID         string `json:"warehouseId"`
	Location            string `json:"location,omitempty"`
	QuantityAvailable   int    `json:"quantityAvailable"`
	QuantityBackordered int    `json:"quantityBackordered,omitempty"`
}
