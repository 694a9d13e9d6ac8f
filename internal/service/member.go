package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"messenger/internal/domain"
	"messenger/internal/repository"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type MemberService interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	FindByName(ctx context.Context, name string) ([]*domain.Member, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Member, error)
	UpdateInfo(ctx context.Context, callerID, memberID string, in UpdateInfoInput) (*domain.Member, error)
}

// UpdateInfoInput: nil поле не меняется
type UpdateInfoInput struct {
	Name          *string `json:"name" validate:"omitempty,max=100"`
	Password      *string `json:"password" validate:"omitempty,min=8,max=72"`
	StatusMessage *string `json:"status_message" validate:"omitempty,max=255"`
}

const (
	defaultMemberListLimit = 20
	maxMemberListLimit     = 100
)

type memberService struct {
	memberRepo repository.MemberRepository
	audit      AuditService
	log        logger.Logger
}

func NewMemberService(memberRepo repository.MemberRepository, audit AuditService, log logger.Logger) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		audit:      audit,
		log:        log,
	}
}

func (s *memberService) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) FindByName(ctx context.Context, name string) ([]*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", apperrors.ErrInvalidArgument)
	}

	members, err := s.memberRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return stripPasswords(members), nil
}

func (s *memberService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Member, error) {
	if limit <= 0 {
		limit = defaultMemberListLimit
	}
	if limit > maxMemberListLimit {
		limit = maxMemberListLimit
	}
	if offset < 0 {
		offset = 0
	}

	members, err := s.memberRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return stripPasswords(members), nil
}

// UpdateInfo: участник меняет только свой профиль, чужой выглядит как несуществующий
func (s *memberService) UpdateInfo(ctx context.Context, callerID, memberID string, in UpdateInfoInput) (*domain.Member, error) {
	callerID, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}
	if callerID != strings.TrimSpace(memberID) {
		return nil, fmt.Errorf("member %q: %w", memberID, apperrors.ErrNotFound)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, 3)
	if in.Name != nil {
		member.Name = strings.TrimSpace(*in.Name)
		changed = append(changed, "name")
	}
	if in.StatusMessage != nil {
		member.StatusMessage = strings.TrimSpace(*in.StatusMessage)
		changed = append(changed, "status_message")
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error("Failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		member.PasswordHash = string(hash)
		changed = append(changed, "password")
	}

	if len(changed) > 0 {
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return nil, err
		}
		recordAudit(ctx, s.audit, s.log, callerID, domain.EventTypeMemberUpdated, map[string]interface{}{
			"fields": changed,
		})
	}

	member.PasswordHash = ""
	return member, nil
}

func stripPasswords(members []*domain.Member) []*domain.Member {
	for _, m := range members {
		m.PasswordHash = ""
	}
	return members
}
