package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

func TestMemoryMemberRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMemberRepository(logger.Nop())

	for _, m := range []*domain.Member{
		{ID: "carol", Name: "Carol", Role: domain.RoleUser},
		{ID: "alice", Name: "Al", Role: domain.RoleUser},
		{ID: "bob", Name: "Al", Role: domain.RoleAdmin},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Member{ID: "alice"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
	})

	t.Run("get and exists", func(t *testing.T) {
		m, err := repo.GetByID(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, m.Role)

		_, err = repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		ok, err := repo.Exists(ctx, "carol")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("find by name sorted by id", func(t *testing.T) {
		found, err := repo.FindByName(ctx, " Al ")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "alice", found[0].ID)
		assert.Equal(t, "bob", found[1].ID)
	})

	t.Run("list with offset", func(t *testing.T) {
		page, err := repo.List(ctx, 2, 1)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "bob", page[0].ID)
		assert.Equal(t, "carol", page[1].ID)

		empty, err := repo.List(ctx, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update", func(t *testing.T) {
		m, err := repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		m.StatusMessage = "busy"
		require.NoError(t, repo.Update(ctx, m))

		again, err := repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "busy", again.StatusMessage)

		err = repo.Update(ctx, &domain.Member{ID: "ghost"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMemoryTokenDenylist(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryTokenDenylist().(*memoryTokenDenylist)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	require.NoError(t, d.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "jti-expired", now.Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryAuditRepository(t *testing.T) {
	repo := NewMemoryAuditRepository()
	entry := &domain.AuditLog{ActorID: "alice", EventType: domain.EventTypeChatSent}

	require.NoError(t, repo.CreateLog(context.Background(), entry))
	assert.EqualValues(t, 1, entry.ID)
	require.Len(t, repo.Entries(), 1)
	assert.Equal(t, domain.EventTypeChatSent, repo.Entries()[0].EventType)
}
