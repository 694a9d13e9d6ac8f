package service

import (
	"messenger/internal/config"
	"messenger/internal/metrics"
	"messenger/internal/repository"
	"messenger/pkg/logger"
)

type Services struct {
	Auth      AuthService
	Member    MemberService
	Chat      ChatService
	RateLimit RateLimitService
	Audit     AuditService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, m *metrics.Collector, log logger.Logger) *Services {
	audit := NewAuditService(repos.Audit, log)

	return &Services{
		Auth:      NewAuthService(repos.Member, repos.Denylist, audit, cfg.JWT, cfg.Members, log),
		Member:    NewMemberService(repos.Member, audit, log),
		Chat:      NewChatService(repos.Chat, repos.Member, audit, cfg.Chat, m, log),
		RateLimit: NewRateLimitService(repos.RateLimit, cfg.RateLimit, log),
		Audit:     audit,
	}
}
