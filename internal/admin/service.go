package admin

import "context"

type Service interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}
