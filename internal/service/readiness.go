package service

import "context"

type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// CheckReadiness reports whether the store can accept writes. Stores
// without a readiness check are always ready.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if rc, ok := s.store.(readinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
