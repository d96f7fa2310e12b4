package models

// Requests for the dashboard HTTP endpoints.

type SelectionRequest struct {
	IDs []int `json:"ids" validate:"max=1000"`
}

// RangeRequest updates either bound; an absent field leaves it as is.
type RangeRequest struct {
	From *string `json:"from" validate:"omitempty,max=64"`
	To   *string `json:"to" validate:"omitempty,max=64"`
}

type CatalogPageRequest struct {
	Page     int `query:"page" default:"1" validate:"gte=1"`
	PageSize int `query:"page_size" default:"10" validate:"gte=1,lte=100"`
}

type ChartRequest struct {
	Metric string `query:"metric" validate:"omitempty,oneof=open high low close"`
}

type ChartImageRequest struct {
	Metric string `query:"metric" validate:"omitempty,oneof=open high low close"`
	Width  int    `query:"width" validate:"omitempty,gte=200,lte=4096"`
	Height int    `query:"height" validate:"omitempty,gte=150,lte=4096"`
}
