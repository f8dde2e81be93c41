package domain

import "time"

type Service struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	ImageURL    *string   `json:"imageURL,omitempty"`
	ReviewCount *int64    `json:"reviewCount,omitempty"` // absent until the first review lands
	CreatedAt   time.Time `json:"createdAt"`
}

// ServicePatch carries the fields a partial update may touch.
// Nil means "leave unchanged".
type ServicePatch struct {
	Email       *string  `json:"email"`
	Category    *string  `json:"category"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageURL"`
}

func (p ServicePatch) Empty() bool {
	return p.Email == nil && p.Category == nil && p.Title == nil &&
		p.Description == nil && p.Price == nil && p.ImageURL == nil
}

type ServicesQuery struct {
	Email    *string // exact owner match
	Category *string // case-insensitive substring
	Title    *string // case-insensitive substring
	Limit    int     // 0 = no limit
}
