package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"service_review/internal/domain"
)

// ReviewService owns review CRUD plus the reconciliation that keeps the
// parent service's denormalized review counter in step with the collection.
type ReviewService struct {
	reviews  domain.ReviewRepository
	services domain.ServiceRepository
	cache    domain.Cache
}

func NewReviewService(rr domain.ReviewRepository, sr domain.ServiceRepository, c domain.Cache) *ReviewService {
	return &ReviewService{reviews: rr, services: sr, cache: c}
}

func (s *ReviewService) List(ctx context.Context, q domain.ReviewsQuery) ([]domain.Review, error) {
	return s.reviews.ListReviews(ctx, q)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (domain.Review, error) {
	return s.reviews.GetReview(ctx, id)
}

// Create persists the review and then reconciles the parent counter with one
// atomic increment-or-initialize statement. The two writes are not a
// transaction: when the counter update matches nothing (service deleted in
// between, or the reference was stale to begin with) the review stays
// persisted and ErrCounterNotApplied is returned so the caller can say so.
func (s *ReviewService) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	id, err := s.reviews.CreateReview(ctx, rv)
	if err != nil {
		return domain.Review{}, err
	}
	stored, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}

	affected, err := s.services.BumpReviewCount(ctx, rv.ReviewID)
	if err != nil {
		return stored, err
	}
	if affected == 0 {
		log.Warn().
			Int64("review", id).
			Int64("service", rv.ReviewID).
			Msg("review persisted but referenced service is gone")
		return stored, domain.ErrCounterNotApplied
	}
	s.invalidateService(ctx, rv.ReviewID)
	return stored, nil
}

func (s *ReviewService) Update(ctx context.Context, id int64, p domain.ReviewPatch) error {
	if p.Empty() {
		return nil
	}
	// Counters are untouched here: edits change content, not cardinality.
	return s.reviews.UpdateReview(ctx, id, p)
}

// Delete removes the review and, when a row was actually removed, decrements
// the parent counter so it keeps matching the number of referencing reviews.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	rv, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // absent is a no-op success, store semantics
		}
		return err
	}
	removed, err := s.reviews.DeleteReview(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	if _, err := s.services.DropReviewCount(ctx, rv.ReviewID); err != nil {
		return err
	}
	s.invalidateService(ctx, rv.ReviewID)
	return nil
}

func (s *ReviewService) invalidateService(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, serviceKey(id))
}
