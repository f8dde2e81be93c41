package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"reviewId"` // the reviewed service's id (historical field name)
	Email     string    `json:"email"`
	Rating    *float64  `json:"rating,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Text      *string   `json:"text,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewPatch carries the updatable review fields. The service reference
// (ReviewID) is deliberately not updatable: moving a review between services
// would silently desync both counters.
type ReviewPatch struct {
	Rating *float64 `json:"rating"`
	Title  *string  `json:"title"`
	Text   *string  `json:"text"`
}

func (p ReviewPatch) Empty() bool {
	return p.Rating == nil && p.Title == nil && p.Text == nil
}

type ReviewsQuery struct {
	Email     *string // exact owner match
	ServiceID *int64  // reviews attached to one service
}
