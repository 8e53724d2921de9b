package domain

import "time"

// DefaultPriceMax is the upper bound of the preference price range when a
// user has no observed purchase history.
const DefaultPriceMax = 1_000_000

// StringSet is a membership set that survives JSON round-trips through the
// profile cache.
type StringSet map[string]bool

func (s StringSet) Add(v string) {
	if v != "" {
		s[v] = true
	}
}

func (s StringSet) Has(v string) bool { return s[v] }

type Demographics struct {
	Age      int    `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the preferred range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

type Preferences struct {
	Categories StringSet  `json:"categories"`
	Brands     StringSet  `json:"brands"`
	PriceRange PriceRange `json:"price_range"`
	Features   StringSet  `json:"features"`
}

// Behavior holds ordered product/query histories, most recent first.
type Behavior struct {
	PurchaseHistory []string `json:"purchase_history"`
	ViewHistory     []string `json:"view_history"`
	SearchHistory   []string `json:"search_history"`
	ClickHistory    []string `json:"click_history"`
	CartHistory     []string `json:"cart_history"`
}

type Interactions struct {
	Likes    []string `json:"likes"`
	Dislikes []string `json:"dislikes"`
	Reviews  []string `json:"reviews"`
}

type UserProfile struct {
	UserID       string       `json:"user_id"`
	Demographics Demographics `json:"demographics"`
	Preferences  Preferences  `json:"preferences"`
	Behavior     Behavior     `json:"behavior"`
	Interactions Interactions `json:"interactions"`
	BuiltAt      time.Time    `json:"built_at"`
}

// NewUserProfile returns a profile with empty-history defaults: empty sets
// and the full [0, DefaultPriceMax] price range.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID: userID,
		Preferences: Preferences{
			Categories: StringSet{},
			Brands:     StringSet{},
			Features:   StringSet{},
			PriceRange: PriceRange{Min: 0, Max: DefaultPriceMax},
		},
	}
}

// HasPurchased reports whether productID appears in the purchase history.
func (p *UserProfile) HasPurchased(productID string) bool {
	for _, id := range p.Behavior.PurchaseHistory {
		if id == productID {
			return true
		}
	}
	return false
}
