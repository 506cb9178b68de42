package changelog

import "context"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const defaultListLimit = 100

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = defaultListLimit
	}
	return s.repo.List(ctx, filter)
}
