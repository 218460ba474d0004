package entity

import "time"

// Supply is a waste material an organization offers.
type Supply struct {
	ID            int64     `json:"supply_id"`
	OrgID         int64     `json:"org_id"`
	ItemName      string    `json:"item_name"`
	ItemCategory  *string   `json:"item_category,omitempty"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	Description   *string   `json:"item_description,omitempty"`
	PricePerUnit  *float64  `json:"price_per_unit,omitempty"`
	Currency      string    `json:"currency"`
	Quantity      *float64  `json:"quantity,omitempty"`
	QuantityUnit  *string   `json:"quantity_unit,omitempty"`
	SearchRadius  *float64  `json:"search_radius,omitempty"`
	Active        bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Demand is a material an organization is looking for. Structurally a
// Supply, except the price field is the buyer's ceiling.
type Demand struct {
	ID              int64     `json:"demand_id"`
	OrgID           int64     `json:"org_id"`
	ItemName        string    `json:"item_name"`
	ItemCategory    *string   `json:"item_category,omitempty"`
	CategoryID      *int64    `json:"category_id,omitempty"`
	Description     *string   `json:"item_description,omitempty"`
	MaxPricePerUnit *float64  `json:"max_price_per_unit,omitempty"`
	Currency        string    `json:"currency"`
	Quantity        *float64  `json:"quantity,omitempty"`
	QuantityUnit    *string   `json:"quantity_unit,omitempty"`
	SearchRadius    *float64  `json:"search_radius,omitempty"`
	Active          bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// SupplyCandidate pairs a supply with its owning organization, pre-joined
// by the repository so the matching core never resolves the join itself.
type SupplyCandidate struct {
	Supply Supply
	Org    Organization
}

// DemandCandidate pairs a demand with its owning organization.
type DemandCandidate struct {
	Demand Demand
	Org    Organization
}
