package models

// OrderCreateRequest - создание заказа у дистрибьютора
type OrderCreateRequest struct {
	CustomerOrderNumber    string      `json:"customerOrderNumber" validate:"required,max=35"`
	EndCustomerOrderNumber string      `json:"endCustomerOrderNumber,omitempty" validate:"max=35"`
	BillToAddressID        string      `json:"billToAddressId,omitempty"`
	SpecialBidNumber       string      `json:"specialBidNumber,omitempty"`
	Notes                  string      `json:"notes,omitempty" validate:"max=132"`
	AcceptBackOrder        *bool       `json:"acceptBackOrder,omitempty"`
	ShipToInfo             *ShipToInfo `json:"shipToInfo,omitempty"`
	Lines                  []OrderLine `json:"lines" validate:"required,min=1,dive"`
	AdditionalAttributes   []Attribute `json:"additionalAttributes,omitempty"`
}

// OrderModifyRequest - изменение заказа
type OrderModifyRequest struct {
	Notes      string      `json:"notes,omitempty" validate:"max=132"`
	ShipToInfo *ShipToInfo `json:"shipToInfo,omitempty"`
	Lines      []OrderLine `json:"lines,omitempty" validate:"dive"`
}

// OrderLine - строка заказа
type OrderLine struct {
	CustomerLineNumber string `json:"customerLineNumber,omitempty"`
	IngramPartNumber   string `json:"ingramPartNumber" validate:"required,partnumber"`
	Quantity           int    `json:"quantity" validate:"required,gt=0"`
	SpecialBidNumber   string `json:"specialBidNumber,omitempty"`
}

// ShipToInfo - адрес доставки
type ShipToInfo struct {
	AddressID    string `json:"addressId,omitempty"`
	ContactName  string `json:"contact,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	CountryCode  string `json:"countryCode,omitempty" validate:"omitempty,len=2"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
}

// Attribute - дополнительный атрибут заказа
type Attribute struct {
	Name  string `json:"attributeName"`
	Value string `json:"attributeValue"`
}

// OrderSearchParams - фильтры поиска заказов
type OrderSearchParams struct {
	CustomerOrderNumber string
	OrderStatus         string
	FromDate            string `validate:"omitempty,datetime=2006-01-02"`
	ToDate              string `validate:"omitempty,datetime=2006-01-02"`
	PageNumber          int    `validate:"gte=0"`
	PageSize            int    `validate:"gte=0,lte=100"`
}

// Query - параметры запроса к апстриму
func (p OrderSearchParams) Query() map[string]any {
	return pagedQuery(p.PageNumber, p.PageSize, map[string]string{
		"customerOrderNumber": p.CustomerOrderNumber,
		"orderStatus":         p.OrderStatus,
		"orderDateFrom":       p.FromDate,
		"orderDateTo":         p.ToDate,
	})
}

// pagedQuery - незаданные фильтры и нулевая пагинация в запрос не попадают
func pagedQuery(pageNumber, pageSize int, filters map[string]string) map[string]any {
	q := make(map[string]any, len(filters)+2)
	for key, value := range filters {
		if value != "" {
			q[key] = value
		}
	}
	if pageNumber > 0 {
		q["pageNumber"] = pageNumber
	}
	if pageSize > 0 {
		q["pageSize"] = pageSize
	}
	return q
}
