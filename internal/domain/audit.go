package domain

import (
	"time"
)

type AuditLog struct {
	ID        int64                  `json:"id"`
	EventTime time.Time              `json:"event_time"`
	ActorID   string                 `json:"actor_id"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
}

const (
	EventTypeChatSent       = "CHAT_SENT"
	EventTypeChatDeleted    = "CHAT_DELETED"
	EventTypeChatRead       = "CHAT_READ"
	EventTypeMemberSignedUp = "MEMBER_SIGNED_UP"
	EventTypeMemberUpdated  = "MEMBER_UPDATED"
)
