package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/internal/middleware"
	"messenger/internal/service"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type MemberHandler struct {
	authService   service.AuthService
	memberService service.MemberService
	log           logger.Logger
}

func NewMemberHandler(authService service.AuthService, memberService service.MemberService, log logger.Logger) *MemberHandler {
	return &MemberHandler{
		authService:   authService,
		memberService: memberService,
		log:           log,
	}
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ListMembersQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (h *MemberHandler) SignUp(c *gin.Context) {
	var req service.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid sign up request", "error", err)
		_ = c.Error(fmt.Errorf("invalid request: %v: %w", err, apperrors.ErrInvalidArgument))
		return
	}

	member, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Sign up failed", "error", err, "member_id", req.ID)
		_ = c.Error(err)
		return
	}

	h.log.Info("Member signed up", "member_id", member.ID)
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", "error", err)
		_ = c.Error(fmt.Errorf("invalid request: %v: %w", err, apperrors.ErrInvalidArgument))
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		h.log.Warn("Login failed", "error", err, "member_id", req.ID)
		_ = c.Error(err)
		return
	}

	h.log.Info("Member logged in", "member_id", response.Member.ID)
	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Logout(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		_ = c.Error(fmt.Errorf("caller missing: %w", apperrors.ErrUnauthenticated))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), caller); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) List(c *gin.Context) {
	var q ListMembersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(fmt.Errorf("invalid list parameters: %w", apperrors.ErrInvalidArgument))
		return
	}

	members, err := h.memberService.ListAll(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MemberHandler) GetByID(c *gin.Context) {
	member, err := h.memberService.GetByID(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) FindByName(c *gin.Context) {
	members, err := h.memberService.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// UpdateInfo: участник меняет только свой профиль, чужой id отвечает 404
func (h *MemberHandler) UpdateInfo(c *gin.Context) {
	var req service.UpdateInfoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(fmt.Errorf("invalid request: %v: %w", err, apperrors.ErrInvalidArgument))
		return
	}

	member, err := h.memberService.UpdateInfo(
		c.Request.Context(),
		c.GetString(middleware.UserIDKey),
		c.Param("memberId"),
		req,
	)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, member)
}
