package dto

// CreateSupplyRequest is the payload for publishing a new supply listing.
type CreateSupplyRequest struct {
	ItemName     string   `json:"item_name"`
	ItemCategory *string  `json:"item_category,omitempty"`
	CategoryID   *int64   `json:"category_id,omitempty"`
	Description  *string  `json:"item_description,omitempty"`
	PricePerUnit *float64 `json:"price_per_unit,omitempty"`
	Currency     string   `json:"currency"`
	Quantity     *float64 `json:"quantity,omitempty"`
	QuantityUnit *string  `json:"quantity_unit,omitempty"`
	SearchRadius *float64 `json:"search_radius,omitempty"`
}

// CreateDemandRequest is the payload for publishing a new demand listing.
type CreateDemandRequest struct {
	ItemName        string   `json:"item_name"`
	ItemCategory    *string  `json:"item_category,omitempty"`
	CategoryID      *int64   `json:"category_id,omitempty"`
	Description     *string  `json:"item_description,omitempty"`
	MaxPricePerUnit *float64 `json:"max_price_per_unit,omitempty"`
	Currency        string   `json:"currency"`
	Quantity        *float64 `json:"quantity,omitempty"`
	QuantityUnit    *string  `json:"quantity_unit,omitempty"`
	SearchRadius    *float64 `json:"search_radius,omitempty"`
}
