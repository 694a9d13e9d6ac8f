package service

import (
	"context"
	"time"

	"messenger/internal/domain"
	"messenger/internal/repository"
	"messenger/pkg/logger"
)

type AuditService interface {
	LogEvent(ctx context.Context, actorID, eventType string, payload map[string]interface{}) error
}

type auditService struct {
	auditRepo repository.AuditRepository
	log       logger.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, log logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		log:       log,
	}
}

func (s *auditService) LogEvent(ctx context.Context, actorID, eventType string, payload map[string]interface{}) error {
	if payload == nil {
		payload = make(map[string]interface{})
	}

	auditLog := &domain.AuditLog{
		EventTime: time.Now().UTC(),
		ActorID:   actorID,
		EventType: eventType,
		Payload:   payload,
	}

	return s.auditRepo.CreateLog(ctx, auditLog)
}

// recordAudit - аудит не должен ломать основную операцию
func recordAudit(ctx context.Context, audit AuditService, log logger.Logger, actorID, eventType string, payload map[string]interface{}) {
	if audit == nil {
		return
	}
	if err := audit.LogEvent(ctx, actorID, eventType, payload); err != nil {
		log.Warn("Failed to write audit event", "error", err, "event_type", eventType, "actor_id", actorID)
	}
}
