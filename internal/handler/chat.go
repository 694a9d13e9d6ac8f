package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger/internal/domain"
	"messenger/internal/middleware"
	"messenger/internal/service"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

type SendChatRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// PageQuery - параметры курсорной пагинации из query string
type PageQuery struct {
	LastSeenID *int64 `form:"last_seen_id"`
	PageSize   *int   `form:"page_size"`
}

// ChatPageResponse - страница сообщений; NextLastSeenID == nil, если страница пустая
type ChatPageResponse struct {
	Chats          []*domain.PersonalChat `json:"chats"`
	NextLastSeenID *int64                 `json:"next_last_seen_id"`
}

type EnterChatResponse struct {
	ChatPageResponse
	LatestReceivedChat *domain.PersonalChat `json:"latest_received_chat"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid send chat request", "error", err)
		_ = c.Error(fmt.Errorf("invalid request: %v: %w", err, apperrors.ErrInvalidArgument))
		return
	}

	chat, err := h.chatService.SendPersonalChat(c.Request.Context(), service.SendPersonalChatInput{
		SenderID:   c.GetString(middleware.UserIDKey),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chatId"), 10, 64)
	if err != nil {
		_ = c.Error(fmt.Errorf("invalid chat ID: %w", apperrors.ErrInvalidArgument))
		return
	}

	if err := h.chatService.DeletePersonalChat(c.Request.Context(), chatID, c.GetString(middleware.UserIDKey)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted"})
}

func (h *ChatHandler) ListAll(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListAllPersonalChat(c.Request.Context(), page)
	respondPage(c, chats, err)
}

func (h *ChatHandler) ListSent(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListPersonalChatBySender(c.Request.Context(), c.GetString(middleware.UserIDKey), page)
	respondPage(c, chats, err)
}

func (h *ChatHandler) ListReceived(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListPersonalChatByReceiver(c.Request.Context(), c.GetString(middleware.UserIDKey), page)
	respondPage(c, chats, err)
}

func (h *ChatHandler) ListGroup(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListPersonalChatByGroup(
		c.Request.Context(),
		c.GetString(middleware.UserIDKey),
		c.Param("oppositeId"),
		page,
	)
	respondPage(c, chats, err)
}

// EnterGroup отдает первую страницу переписки и отмечает последнее входящее как прочитанное
func (h *ChatHandler) EnterGroup(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	res, err := h.chatService.EnterPersonalChatGroup(
		c.Request.Context(),
		c.GetString(middleware.UserIDKey),
		c.Param("oppositeId"),
		page.PageSize,
	)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, EnterChatResponse{
		ChatPageResponse:   newChatPage(res.Chats),
		LatestReceivedChat: res.LatestReceived,
	})
}

// bindPage: отсутствующий page_size означает размер по умолчанию,
// явно переданное значение меньше 1 прижимается к 1.
func bindPage(c *gin.Context) (domain.PageRequest, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(fmt.Errorf("invalid pagination parameters: %w", apperrors.ErrInvalidArgument))
		return domain.PageRequest{}, false
	}

	page := domain.PageRequest{LastSeenID: q.LastSeenID}
	if q.PageSize != nil {
		page.PageSize = max(*q.PageSize, 1)
	}
	return page, true
}

func respondPage(c *gin.Context, chats []*domain.PersonalChat, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newChatPage(chats))
}

func newChatPage(chats []*domain.PersonalChat) ChatPageResponse {
	if chats == nil {
		chats = []*domain.PersonalChat{}
	}
	return ChatPageResponse{
		Chats:          chats,
		NextLastSeenID: domain.NextLastSeenID(chats),
	}
}
