package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"messenger/pkg/logger"
)

type Repositories struct {
	Member    MemberRepository
	Chat      ChatRepository
	Audit     AuditRepository
	Denylist  TokenDenylist
	RateLimit RateLimitRepository // nil, если Redis не настроен
}

// NewRepositories собирает хранилища на PostgreSQL.
// redis может быть nil: тогда denylist в памяти, rate limit выключен.
func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		Member: NewMemberRepository(db, log),
		Chat:   NewChatRepository(db, log),
		Audit:  NewAuditRepository(db, log),
	}
	attachRedis(repos, redis, log)

	log.Info("PostgreSQL repositories initialized")
	return repos
}

// NewMemoryRepositories - все хранилища в памяти процесса
func NewMemoryRepositories(redis *redis.Client, log logger.Logger) *Repositories {
	members := NewMemoryMemberRepository(log)
	repos := &Repositories{
		Member: members,
		Chat:   NewMemoryChatRepository(members, log),
		Audit:  NewMemoryAuditRepository(),
	}
	attachRedis(repos, redis, log)

	log.Warn("In-memory repositories initialized, data will not survive restart")
	return repos
}

func attachRedis(repos *Repositories, redis *redis.Client, log logger.Logger) {
	if redis == nil {
		repos.Denylist = NewMemoryTokenDenylist()
		log.Info("Redis not configured, rate limiting disabled")
		return
	}
	repos.Denylist = NewRedisTokenDenylist(redis, log)
	repos.RateLimit = NewRateLimitRepository(redis, log)
}
