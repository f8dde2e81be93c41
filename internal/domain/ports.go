package domain

import "context"

type ServiceRepository interface {
	ListServices(ctx context.Context, q ServicesQuery) ([]Service, error)
	GetService(ctx context.Context, id int64) (Service, error)
	CreateService(ctx context.Context, s Service) (int64, error)
	UpdateService(ctx context.Context, id int64, p ServicePatch) error
	DeleteService(ctx context.Context, id int64) error

	// BumpReviewCount applies one atomic "+1, starting at 1 when absent"
	// update to the service's review counter. Returns the number of rows
	// the statement changed (0 when the service does not exist).
	BumpReviewCount(ctx context.Context, id int64) (int64, error)

	// DropReviewCount atomically decrements the counter, flooring at zero.
	DropReviewCount(ctx context.Context, id int64) (int64, error)
}

type ReviewRepository interface {
	ListReviews(ctx context.Context, q ReviewsQuery) ([]Review, error)
	GetReview(ctx context.Context, id int64) (Review, error)
	CreateReview(ctx context.Context, r Review) (int64, error)
	UpdateReview(ctx context.Context, id int64, p ReviewPatch) error
	// DeleteReview reports whether a row was actually removed, so the
	// caller can decide whether the parent counter needs adjusting.
	DeleteReview(ctx context.Context, id int64) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Identity is the claim extracted from a verified token.
type Identity struct {
	Email string
}

type TokenVerifier interface {
	Verify(token string) (Identity, error)
}
