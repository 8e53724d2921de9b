package domain

// RecType selects the scoring strategy for a request.
type RecType string

const (
	TypePersonalized  RecType = "personalized"
	TypeSimilar       RecType = "similar"
	TypeTrending      RecType = "trending"
	TypeCollaborative RecType = "collaborative"
	TypeContentBased  RecType = "content-based"
)

// RecTypes lists every recognized strategy.
var RecTypes = []RecType{
	TypePersonalized,
	TypeSimilar,
	TypeTrending,
	TypeCollaborative,
	TypeContentBased,
}

func (t RecType) Valid() bool {
	for _, rt := range RecTypes {
		if t == rt {
			return true
		}
	}
	return false
}

type RequestContext struct {
	Page           string   `json:"page,omitempty"`
	SessionID      string   `json:"session_id,omitempty"`
	CurrentProduct string   `json:"current_product,omitempty"`
	CartItems      []string `json:"cart_items,omitempty"`
	SearchQuery    string   `json:"search_query,omitempty"`
}

type RecommendationRequest struct {
	UserID  string          `json:"user_id"`
	Context RequestContext  `json:"context"`
	Type    RecType         `json:"type"`
	Limit   int             `json:"limit"`
	Filters *ProductFilters `json:"filters,omitempty"`
}

type ResultMetadata struct {
	Algorithm   string   `json:"algorithm"`
	Factors     []string `json:"factors,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// RecommendationResult is one scored candidate. Result lists are sorted
// descending by Score, contain no duplicate ProductID, and never exceed the
// requested limit.
type RecommendationResult struct {
	ProductID  string         `json:"product_id"`
	Score      float64        `json:"score"`
	Reason     string         `json:"reason"`
	Confidence float64        `json:"confidence"`
	Type       RecType        `json:"type"`
	Metadata   ResultMetadata `json:"metadata"`
}
