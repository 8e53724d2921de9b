package domain

// ProductFeatures is a read-only projection of a catalog product; nothing in
// the engine mutates it.
type ProductFeatures struct {
	ProductID   string   `json:"product_id"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
	Tags        []string `json:"tags"`
	Popularity  float64  `json:"popularity"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
}

// ProductFilters narrows the candidate pool read from the catalog.
type ProductFilters struct {
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}
