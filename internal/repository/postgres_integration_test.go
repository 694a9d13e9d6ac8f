package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

// Интеграционные тесты запускаются, только если задан MESSENGER_TEST_DATABASE_DSN

func mustOpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("MESSENGER_TEST_DATABASE_DSN"))
	if raw == "" {
		t.Skip("integration test skipped: MESSENGER_TEST_DATABASE_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, raw)
	require.NoError(t, err)

	schema := "messenger_it_" + uuid.NewString()[:8]
	_, err = admin.Exec(ctx, `CREATE SCHEMA `+pgx.Identifier{schema}.Sanitize())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = admin.Exec(ctx, `DROP SCHEMA IF EXISTS `+pgx.Identifier{schema}.Sanitize()+` CASCADE`)
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(raw)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestPostgresRepositories_ChatLifecycle(t *testing.T) {
	pool := mustOpenTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	members := NewMemberRepository(pool, logger.Nop())
	chats := NewChatRepository(pool, logger.Nop())

	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, members.Create(ctx, &domain.Member{ID: id, PasswordHash: "x", Role: domain.RoleUser}))
	}

	err := members.Create(ctx, &domain.Member{ID: "alice", PasswordHash: "x", Role: domain.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	err = chats.Insert(ctx, &domain.PersonalChat{SenderID: "alice", ReceiverID: "ghost", Content: "x", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var ids []int64
	for i := 0; i < 4; i++ {
		c := &domain.PersonalChat{SenderID: "bob", ReceiverID: "alice", Content: "hello", CreatedAt: time.Now()}
		require.NoError(t, chats.Insert(ctx, c))
		ids = append(ids, c.ID)
	}
	other := &domain.PersonalChat{SenderID: "alice", ReceiverID: "carol", Content: "hey", CreatedAt: time.Now()}
	require.NoError(t, chats.Insert(ctx, other))

	key, err := domain.Canonicalize("alice", "bob")
	require.NoError(t, err)

	page, err := chats.QueryByFilter(ctx, domain.GroupFilter(key), domain.PageRequest{PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Greater(t, page[0].ID, page[1].ID)

	next, err := chats.QueryByFilter(ctx, domain.GroupFilter(key), domain.PageRequest{LastSeenID: &page[2].ID, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, ids[0], next[0].ID)

	n, err := chats.UpdateReadFlag(ctx, ids[0])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = chats.UpdateDeletedFlag(ctx, ids[1])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := chats.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	received, err := chats.QueryByFilter(ctx, domain.ReceiverFilter("alice"), domain.PageRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, received, 3)

	missing, err := chats.FindByID(ctx, 1_000_000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
