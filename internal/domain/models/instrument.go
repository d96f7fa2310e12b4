package models

// Instrument is one catalog row. ID is dense and 1-based, assigned when the
// catalog is loaded.
type Instrument struct {
	ID       int    `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Country  string `json:"country"`
}

// CatalogEntry is a raw listing as the provider returns it.
type CatalogEntry struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	StockExchange StockExchange `json:"stock_exchange"`
}

type StockExchange struct {
	Name        string `json:"name"`
	Acronym     string `json:"acronym,omitempty"`
	MIC         string `json:"mic,omitempty"`
	CountryCode string `json:"country_code"`
}
