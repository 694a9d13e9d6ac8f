package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/repository"
	"messenger/internal/repository/mocks"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/jwt"
	"messenger/pkg/logger"
)

var testJWT = config.JWTConfig{
	AccessSecret: "test-secret-0123456789",
	AccessTTL:    time.Hour,
	Issuer:       "messenger",
}

func newAuthFixture(t *testing.T) (AuthService, repository.MemberRepository) {
	t.Helper()

	log := logger.Nop()
	members := repository.NewMemoryMemberRepository(log)
	svc := NewAuthService(members, repository.NewMemoryTokenDenylist(), nil, testJWT, config.MembersConfig{AdminIDs: []string{"root"}}, log)
	return svc, members
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()
	svc, members := newAuthFixture(t)

	t.Run("should create member with hashed password", func(t *testing.T) {
		m, err := svc.SignUp(ctx, SignUpInput{ID: " alice ", Password: "password1", Name: "Alice"})
		require.NoError(t, err)
		assert.Equal(t, "alice", m.ID)
		assert.Equal(t, domain.RoleUser, m.Role)
		assert.Empty(t, m.PasswordHash)

		stored, err := members.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "password1", stored.PasswordHash)
		assert.NotEmpty(t, stored.PasswordHash)
	})

	t.Run("should grant admin to configured ids", func(t *testing.T) {
		m, err := svc.SignUp(ctx, SignUpInput{ID: "root", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, m.Role)
	})

	t.Run("should reject duplicate id", func(t *testing.T) {
		_, err := svc.SignUp(ctx, SignUpInput{ID: "alice", Password: "password2"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
	})

	invalid := []SignUpInput{
		{ID: "al", Password: "password1"},
		{ID: "has space", Password: "password1"},
		{ID: strings.Repeat("x", 51), Password: "password1"},
		{ID: "carol", Password: "short"},
		{ID: "carol", Password: "password1", Name: strings.Repeat("n", 101)},
	}
	for _, in := range invalid {
		_, err := svc.SignUp(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "input %+v", in)
	}
}

func TestAuthService_LoginResolveLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, err := svc.SignUp(ctx, SignUpInput{ID: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = svc.Login(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	resp, err := svc.Login(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Empty(t, resp.Member.PasswordHash)

	caller, err := svc.ResolveCaller(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", caller.ID)
	assert.Equal(t, domain.RoleUser, caller.Role)
	assert.NotEmpty(t, caller.TokenID)

	require.NoError(t, svc.Logout(ctx, caller))

	_, err = svc.ResolveCaller(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuthService_ResolveCallerRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, err := svc.ResolveCaller(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.ResolveCaller(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	// валидный токен участника, которого нет в хранилище
	token, _, err := jwt.GenerateAccessToken("ghost", domain.RoleUser, testJWT.AccessSecret, testJWT.Issuer, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = svc.ResolveCaller(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	expired, _, err := jwt.GenerateAccessToken("ghost", domain.RoleUser, testJWT.AccessSecret, testJWT.Issuer, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.ResolveCaller(ctx, expired)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAuthService_ResolveCallerDenylistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	denylist := mocks.NewMockTokenDenylist(ctrl)
	members := mocks.NewMockMemberRepository(ctrl)
	svc := NewAuthService(members, denylist, nil, testJWT, config.MembersConfig{}, logger.Nop())

	token, _, err := jwt.GenerateAccessToken("alice", domain.RoleUser, testJWT.AccessSecret, testJWT.Issuer, time.Hour, time.Now())
	require.NoError(t, err)

	redisDown := errors.New("redis: connection refused")
	denylist.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, redisDown)
	members.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	_, err = svc.ResolveCaller(context.Background(), token)
	assert.ErrorIs(t, err, redisDown)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthenticated)
}
