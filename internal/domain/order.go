package domain

import "time"

type OrderItem struct {
	ProductID string   `json:"product_id"`
	Category  string   `json:"category"`
	Brand     string   `json:"brand"`
	Price     float64  `json:"price"`
	Features  []string `json:"features"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}
