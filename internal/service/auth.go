package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/repository"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/jwt"
	"messenger/pkg/logger"
)

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.Member, error)
	Login(ctx context.Context, id, password string) (*LoginResponse, error)
	Logout(ctx context.Context, caller *domain.Caller) error
	// ResolveCaller проверяет bearer-токен и возвращает участника запроса
	ResolveCaller(ctx context.Context, token string) (*domain.Caller, error)
}

type SignUpInput struct {
	ID            string `json:"id" validate:"required,min=3,max=50,member_id"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Name          string `json:"name" validate:"max=100"`
	StatusMessage string `json:"status_message" validate:"max=255"`
}

type LoginResponse struct {
	Member      *domain.Member `json:"member"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)

type authService struct {
	memberRepo repository.MemberRepository
	denylist   repository.TokenDenylist
	audit      AuditService
	jwtCfg     config.JWTConfig
	adminIDs   []string
	log        logger.Logger
	now        func() time.Time
}

func NewAuthService(
	memberRepo repository.MemberRepository,
	denylist repository.TokenDenylist,
	audit AuditService,
	jwtCfg config.JWTConfig,
	membersCfg config.MembersConfig,
	log logger.Logger,
) AuthService {
	return &authService{
		memberRepo: memberRepo,
		denylist:   denylist,
		audit:      audit,
		jwtCfg:     jwtCfg,
		adminIDs:   membersCfg.AdminIDs,
		log:        log,
		now:        time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*domain.Member, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.StatusMessage = strings.TrimSpace(in.StatusMessage)

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if lo.Contains(s.adminIDs, in.ID) {
		role = domain.RoleAdmin
	}

	now := s.now().UTC()
	member := &domain.Member{
		ID:            in.ID,
		PasswordHash:  string(passwordHash),
		Name:          in.Name,
		StatusMessage: in.StatusMessage,
		Role:          role,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, member.ID, domain.EventTypeMemberSignedUp, map[string]interface{}{
		"role": member.Role,
	})
	s.log.Info("Member signed up", "member_id", member.ID, "role", member.Role)

	// Убираем пароль из ответа
	member.PasswordHash = ""
	return member, nil
}

func (s *authService) Login(ctx context.Context, id, password string) (*LoginResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return nil, errInvalidCredentials
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		// Не раскрываем, существует ли участник
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, claims, err := jwt.GenerateAccessToken(member.ID, member.Role, s.jwtCfg.AccessSecret, s.jwtCfg.Issuer, s.jwtCfg.AccessTTL, s.now())
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	member.PasswordHash = ""
	return &LoginResponse{
		Member:      member,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Logout отзывает текущий токен до истечения его срока
func (s *authService) Logout(ctx context.Context, caller *domain.Caller) error {
	if caller == nil || caller.TokenID == "" {
		return fmt.Errorf("caller: %w", apperrors.ErrUnauthenticated)
	}
	return s.denylist.Revoke(ctx, caller.TokenID, caller.ExpiresAt)
}

// ResolveCaller: ошибки токена и отсутствие участника дают ErrUnauthenticated,
// ошибки хранилищ возвращаются как есть.
func (s *authService) ResolveCaller(ctx context.Context, token string) (*domain.Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", apperrors.ErrUnauthenticated)
	}

	claims, err := jwt.ValidateToken(token, s.jwtCfg.AccessSecret, s.jwtCfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrUnauthenticated)
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token revoked: %w", apperrors.ErrUnauthenticated)
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("member no longer exists: %w", apperrors.ErrUnauthenticated)
		}
		return nil, err
	}

	caller := &domain.Caller{
		ID:      member.ID,
		Role:    member.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		caller.ExpiresAt = claims.ExpiresAt.Time
	}
	return caller, nil
}
