package models

// SearchRequest - параметры поиска по каталогу
type SearchRequest struct {
	Keyword    string `json:"keyword,omitempty"`
	Category   string `json:"category,omitempty"`
	Brand      string `json:"brand,omitempty"`
	PageNumber int    `json:"pageNumber,omitempty" validate:"gte=0"`
	PageSize   int    `json:"pageSize,omitempty" validate:"gte=0,lte=100"`
	SortBy     string `json:"sortBy,omitempty"`
	SortOrder  string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Query - параметры запроса к апстриму
func (r SearchRequest) Query() map[string]any {
	return pagedQuery(r.PageNumber, r.PageSize, map[string]string{
		"keyword":   r.Keyword,
		"category":  r.Category,
		"brand":     r.Brand,
		"sortBy":    r.SortBy,
		"sortOrder": r.SortOrder,
	})
}
