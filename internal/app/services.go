package app

import (
	"context"
	"fmt"
	"time"

	"service_review/internal/domain"
)

// CatalogService wraps the service repository with a read-through cache on the
// single-record path. List queries are not cached: filter combinations would
// fragment the keyspace for little hit rate.
type CatalogService struct {
	repo     domain.ServiceRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.ServiceRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *CatalogService) List(ctx context.Context, q domain.ServicesQuery) ([]domain.Service, error) {
	return s.repo.ListServices(ctx, q)
}

// Preview returns the first few services for the landing-page sample.
func (s *CatalogService) Preview(ctx context.Context, n int) ([]domain.Service, error) {
	return s.repo.ListServices(ctx, domain.ServicesQuery{Limit: n})
}

func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Service, error) {
	key := serviceKey(id)
	var sv domain.Service
	if ok, _ := s.cache.Get(ctx, key, &sv); ok {
		return sv, nil
	}
	sv, err := s.repo.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	_ = s.cache.Set(ctx, key, sv, int(s.cacheTTL.Seconds()))
	return sv, nil
}

func (s *CatalogService) Create(ctx context.Context, sv domain.Service) (domain.Service, error) {
	id, err := s.repo.CreateService(ctx, sv)
	if err != nil {
		return domain.Service{}, err
	}
	return s.repo.GetService(ctx, id)
}

func (s *CatalogService) Update(ctx context.Context, id int64, p domain.ServicePatch) error {
	if p.Empty() {
		return nil
	}
	if err := s.repo.UpdateService(ctx, id, p); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, serviceKey(id))
}

func serviceKey(id int64) string { return fmt.Sprintf("service:%d", id) }
