package service

import (
	"context"

	"messenger/internal/config"
	"messenger/internal/repository"
	"messenger/pkg/logger"
)

type RateLimitService interface {
	// Allow учитывает запрос и сообщает, укладывается ли ключ в лимит окна
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	cfg           config.RateLimitConfig
	log           logger.Logger
}

// NewRateLimitService: без репозитория (Redis не настроен) лимит не применяется
func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, cfg config.RateLimitConfig, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		cfg:           cfg,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, error) {
	if s.rateLimitRepo == nil {
		return true, nil
	}

	ok, err := s.rateLimitRepo.CheckLimit(ctx, key, s.cfg.Limit)
	if err != nil {
		return false, err
	}
	if !ok {
		s.log.Debug("Rate limit exceeded", "key", key)
		return false, nil
	}

	count, err := s.rateLimitRepo.Increment(ctx, key, s.cfg.Window)
	if err != nil {
		return false, err
	}

	return count <= int64(s.cfg.Limit), nil
}
