package types

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id" example:"1"`
	Email        string    `json:"email" example:"admin@example.com"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name" example:"Admin User"`
	CreatedAt    time.Time `json:"createdAt"`
}
