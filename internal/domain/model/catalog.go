package model

import "time"

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id"`
}

type Product struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageID     string  `json:"image_id,omitempty"`
}

type Order struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Subscription struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ReferralStats struct {
	InvitedCount int     `json:"invited_count"`
	Earned       float64 `json:"earned"`
}
