package models

// QuoteSearchParams - фильтры поиска коммерческих предложений
type QuoteSearchParams struct {
	QuoteNumber string
	QuoteName   string
	Status      string
	PageNumber  int `validate:"gte=0"`
	PageSize    int `validate:"gte=0,lte=100"`
}

func (p QuoteSearchParams) Query() map[string]any {
	return pagedQuery(p.PageNumber, p.PageSize, map[string]string{
		"quoteNumber": p.QuoteNumber,
		"quoteName":   p.QuoteName,
		"status":      p.Status,
	})
}

// ReturnSearchParams - фильтры поиска возвратов
type ReturnSearchParams struct {
	CaseRequestNumber string
	InvoiceNumber     string
	Status            string
	PageNumber        int `validate:"gte=0"`
	PageSize          int `validate:"gte=0,lte=100"`
}

func (p ReturnSearchParams) Query() map[string]any {
	return pagedQuery(p.PageNumber, p.PageSize, map[string]string{
		"caseRequestNumber": p.CaseRequestNumber,
		"invoiceNumber":     p.InvoiceNumber,
		"returnStatusIn":    p.Status,
	})
}

// InvoiceSearchParams - фильтры поиска счетов
type InvoiceSearchParams struct {
	InvoiceNumber string
	OrderNumber   string
	FromDate      string `validate:"omitempty,datetime=2006-01-02"`
	ToDate        string `validate:"omitempty,datetime=2006-01-02"`
	PageNumber    int    `validate:"gte=0"`
	PageSize      int    `validate:"gte=0,lte=100"`
}

func (p InvoiceSearchParams) Query() map[string]any {
	return pagedQuery(p.PageNumber, p.PageSize, map[string]string{
		"invoiceNumber":   p.InvoiceNumber,
		"orderNumber":     p.OrderNumber,
		"invoiceDateFrom": p.FromDate,
		"invoiceDateTo":   p.ToDate,
	})
}
