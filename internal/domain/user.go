package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}
