package dto

import "time"

// MatchResult is a single scored candidate returned to the client.
// Distance, similarity and score are rounded to 2 decimal places.
type MatchResult struct {
	ID             int64    `json:"id"`
	OrgID          int64    `json:"org_id"`
	OrgName        string   `json:"org_name"`
	ItemName       string   `json:"item_name"`
	ItemCategory   *string  `json:"item_category,omitempty"`
	Description    *string  `json:"item_description,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
	QuantityUnit   *string  `json:"quantity_unit,omitempty"`
	DistanceKm     float64  `json:"distance_km"`
	NameSimilarity float64  `json:"name_similarity"`
	MatchScore     float64  `json:"match_score"`
	OrgEmail       string   `json:"org_email,omitempty"`
	OrgPhone       *string  `json:"org_phone,omitempty"`
	OrgAddress     *string  `json:"org_address,omitempty"`
	OrgLatitude    float64  `json:"org_latitude"`
	OrgLongitude   float64  `json:"org_longitude"`
}

// SearchResponse wraps the ranked results for a search request together
// with cache metadata.
type SearchResponse struct {
	QueryID               int64         `json:"query_id"`
	Direction             string        `json:"direction"`
	TotalResults          int           `json:"total_results"`
	SearchRadiusKm        float64       `json:"search_radius_km"`
	Cached                bool          `json:"cached"`
	CacheExpiresInSeconds *int64        `json:"cache_expires_in_seconds,omitempty"`
	Results               []MatchResult `json:"results"`
	SearchedAt            time.Time     `json:"searched_at"`
}
