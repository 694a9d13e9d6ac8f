package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/metrics"
	"messenger/internal/repository"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

// ChatService - движок личных переписок. callerID во всех операциях приходит
// от слоя аутентификации; пустое значение означает неаутентифицированный вызов.
type ChatService interface {
	SendPersonalChat(ctx context.Context, in SendPersonalChatInput) (*domain.PersonalChat, error)
	DeletePersonalChat(ctx context.Context, chatID int64, callerID string) error
	ListAllPersonalChat(ctx context.Context, page domain.PageRequest) ([]*domain.PersonalChat, error)
	ListPersonalChatBySender(ctx context.Context, callerID string, page domain.PageRequest) ([]*domain.PersonalChat, error)
	ListPersonalChatByReceiver(ctx context.Context, callerID string, page domain.PageRequest) ([]*domain.PersonalChat, error)
	ListPersonalChatByGroup(ctx context.Context, callerID, oppositeID string, page domain.PageRequest) ([]*domain.PersonalChat, error)
	MarkPersonalChatAsReadByGroup(ctx context.Context, callerID, oppositeID string) (*domain.PersonalChat, error)
	EnterPersonalChatGroup(ctx context.Context, callerID, oppositeID string, pageSize int) (*EnterResult, error)
}

type SendPersonalChatInput struct {
	SenderID   string `validate:"required"`
	ReceiverID string `validate:"required"`
	Content    string `validate:"required"`
}

// EnterResult - первая страница переписки и последнее входящее сообщение.
// Запись LatestReceived в Chats отражает состояние после отметки о прочтении.
type EnterResult struct {
	Chats          []*domain.PersonalChat
	LatestReceived *domain.PersonalChat
}

type chatService struct {
	chatRepo   repository.ChatRepository
	memberRepo repository.MemberRepository
	audit      AuditService
	cfg        config.ChatConfig
	metrics    *metrics.Collector
	log        logger.Logger
	now        func() time.Time
}

func NewChatService(
	chatRepo repository.ChatRepository,
	memberRepo repository.MemberRepository,
	audit AuditService,
	cfg config.ChatConfig,
	m *metrics.Collector,
	log logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:   chatRepo,
		memberRepo: memberRepo,
		audit:      audit,
		cfg:        cfg,
		metrics:    m,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) SendPersonalChat(ctx context.Context, in SendPersonalChatInput) (chat *domain.PersonalChat, err error) {
	defer s.observe(metrics.OpSend, time.Now(), &err)

	in.SenderID = strings.TrimSpace(in.SenderID)
	in.ReceiverID = strings.TrimSpace(in.ReceiverID)
	if in.SenderID == "" {
		return nil, fmt.Errorf("sender: %w", apperrors.ErrUnauthenticated)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("content is blank: %w", apperrors.ErrInvalidArgument)
	}
	if s.cfg.MaxContentLength > 0 && utf8.RuneCountInString(in.Content) > s.cfg.MaxContentLength {
		return nil, fmt.Errorf("content exceeds %d characters: %w", s.cfg.MaxContentLength, apperrors.ErrInvalidArgument)
	}

	for _, id := range []string{in.SenderID, in.ReceiverID} {
		exists, err := s.memberRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("member %q: %w", id, apperrors.ErrNotFound)
		}
	}

	chat = &domain.PersonalChat{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		CreatedAt:  s.now(),
	}
	if err := s.chatRepo.Insert(ctx, chat); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, in.SenderID, domain.EventTypeChatSent, map[string]interface{}{
		"chat_id":     chat.ID,
		"receiver_id": chat.ReceiverID,
	})
	s.log.Debug("Personal chat sent", "chat_id", chat.ID, "sender_id", chat.SenderID, "receiver_id", chat.ReceiverID)

	return chat, nil
}

// DeletePersonalChat: чужое сообщение неотличимо от несуществующего.
// Повторное удаление своего сообщения ничего не меняет и не является ошибкой.
func (s *chatService) DeletePersonalChat(ctx context.Context, chatID int64, callerID string) (err error) {
	defer s.observe(metrics.OpDelete, time.Now(), &err)

	callerID, err = requireCaller(callerID)
	if err != nil {
		return err
	}

	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil || chat.SenderID != callerID {
		return fmt.Errorf("personal chat %d: %w", chatID, apperrors.ErrNotFound)
	}
	if chat.IsDeleted {
		return nil
	}

	affected, err := s.chatRepo.UpdateDeletedFlag(ctx, chatID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("personal chat %d: %w", chatID, apperrors.ErrNotFound)
	}

	recordAudit(ctx, s.audit, s.log, callerID, domain.EventTypeChatDeleted, map[string]interface{}{
		"chat_id": chatID,
	})
	return nil
}

// ListAllPersonalChat включает удаленные записи; проверка прав на уровне HTTP
func (s *chatService) ListAllPersonalChat(ctx context.Context, page domain.PageRequest) (chats []*domain.PersonalChat, err error) {
	defer s.observe(metrics.OpListAll, time.Now(), &err)
	return s.query(ctx, domain.AllFilter(), page)
}

func (s *chatService) ListPersonalChatBySender(ctx context.Context, callerID string, page domain.PageRequest) (chats []*domain.PersonalChat, err error) {
	defer s.observe(metrics.OpListSender, time.Now(), &err)

	callerID, err = requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, domain.SenderFilter(callerID), page)
}

func (s *chatService) ListPersonalChatByReceiver(ctx context.Context, callerID string, page domain.PageRequest) (chats []*domain.PersonalChat, err error) {
	defer s.observe(metrics.OpListRecv, time.Now(), &err)

	callerID, err = requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, domain.ReceiverFilter(callerID), page)
}

func (s *chatService) ListPersonalChatByGroup(ctx context.Context, callerID, oppositeID string, page domain.PageRequest) (chats []*domain.PersonalChat, err error) {
	defer s.observe(metrics.OpListGroup, time.Now(), &err)

	_, key, err := s.group(callerID, oppositeID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, domain.GroupFilter(key), page)
}

// MarkPersonalChatAsReadByGroup отмечает прочитанным только самое новое входящее
// сообщение переписки. Возвращает nil, если входящих нет.
func (s *chatService) MarkPersonalChatAsReadByGroup(ctx context.Context, callerID, oppositeID string) (chat *domain.PersonalChat, err error) {
	defer s.observe(metrics.OpMarkRead, time.Now(), &err)

	callerID, key, err := s.group(callerID, oppositeID)
	if err != nil {
		return nil, err
	}
	return s.markLatestInbound(ctx, callerID, key)
}

// EnterPersonalChatGroup: сначала первая страница, затем отметка о прочтении.
// Отмеченная запись в странице синхронизируется с LatestReceived.
func (s *chatService) EnterPersonalChatGroup(ctx context.Context, callerID, oppositeID string, pageSize int) (res *EnterResult, err error) {
	defer s.observe(metrics.OpEnterGroup, time.Now(), &err)

	callerID, key, err := s.group(callerID, oppositeID)
	if err != nil {
		return nil, err
	}

	chats, err := s.query(ctx, domain.GroupFilter(key), domain.PageRequest{PageSize: pageSize})
	if err != nil {
		return nil, err
	}

	latest, err := s.markLatestInbound(ctx, callerID, key)
	if err != nil {
		return nil, err
	}

	if latest != nil {
		for _, c := range chats {
			if c.ID == latest.ID {
				c.IsRead = latest.IsRead
			}
		}
	}

	return &EnterResult{Chats: chats, LatestReceived: latest}, nil
}

func (s *chatService) markLatestInbound(ctx context.Context, callerID string, key domain.GroupKey) (*domain.PersonalChat, error) {
	page, err := s.chatRepo.QueryByFilter(ctx, domain.InboundGroupFilter(key, callerID), domain.PageRequest{PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, nil
	}

	latest := page[0]
	if latest.IsRead {
		return latest, nil
	}

	affected, err := s.chatRepo.UpdateReadFlag(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("personal chat %d: %w", latest.ID, apperrors.ErrNotFound)
	}
	latest.IsRead = true

	recordAudit(ctx, s.audit, s.log, callerID, domain.EventTypeChatRead, map[string]interface{}{
		"chat_id":   latest.ID,
		"sender_id": latest.SenderID,
	})
	return latest, nil
}

// query - общий путь всех выборок: нормализация страницы и вызов хранилища
func (s *chatService) query(ctx context.Context, filter domain.Filter, page domain.PageRequest) ([]*domain.PersonalChat, error) {
	page = page.Normalize(s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	if page.Exhausted() {
		return []*domain.PersonalChat{}, nil
	}

	chats, err := s.chatRepo.QueryByFilter(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []*domain.PersonalChat{}
	}
	return chats, nil
}

func (s *chatService) group(callerID, oppositeID string) (string, domain.GroupKey, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return "", "", err
	}
	key, err := domain.Canonicalize(callerID, oppositeID)
	if err != nil {
		return "", "", err
	}
	return callerID, key, nil
}

func (s *chatService) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperation(op, time.Since(start), *err)
}

func requireCaller(callerID string) (string, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return "", fmt.Errorf("caller: %w", apperrors.ErrUnauthenticated)
	}
	return callerID, nil
}
