package order

// QueryOrdersModel represents filter parameters for querying the orders table.
type QueryOrdersModel struct {
	Ids    []string `json:"ids,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}

// ListFilter is the dashboard's view filter over a loaded collection.
type ListFilter struct {
	Search        string        `json:"search,omitempty"`
	Status        Status        `json:"status,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	Page          int           `json:"page,omitempty"`
	PageSize      int           `json:"pageSize,omitempty"`
}

// Page is one page of a filtered collection.
type Page struct {
	Orders   []Order `json:"orders"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
