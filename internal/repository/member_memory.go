package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type memoryMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member
	log     logger.Logger
}

func NewMemoryMemberRepository(log logger.Logger) MemberRepository {
	return &memoryMemberRepository{members: make(map[string]*domain.Member), log: log}
}

func (r *memoryMemberRepository) Create(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[member.ID]; ok {
		r.log.Warn("Member already exists", "member_id", member.ID)
		return fmt.Errorf("member %q already exists: %w", member.ID, apperrors.ErrDuplicateKey)
	}

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = now
	}

	cp := *member
	r.members[member.ID] = &cp
	return nil
}

func (r *memoryMemberRepository) GetByID(_ context.Context, id string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, fmt.Errorf("member %q: %w", id, apperrors.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (r *memoryMemberRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[id]
	return ok, nil
}

func (r *memoryMemberRepository) FindByName(_ context.Context, name string) ([]*domain.Member, error) {
	name = strings.TrimSpace(name)
	return lo.Filter(r.sorted(), func(m *domain.Member, _ int) bool {
		return m.Name == name
	}), nil
}

func (r *memoryMemberRepository) List(_ context.Context, limit, offset int) ([]*domain.Member, error) {
	if limit < 1 {
		return []*domain.Member{}, nil
	}
	return lo.Subset(r.sorted(), offset, uint(limit)), nil
}

func (r *memoryMemberRepository) Update(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.members[member.ID]
	if !ok {
		return fmt.Errorf("member %q: %w", member.ID, apperrors.ErrNotFound)
	}

	stored.PasswordHash = member.PasswordHash
	stored.Name = member.Name
	stored.StatusMessage = member.StatusMessage
	stored.UpdatedAt = time.Now().UTC()
	member.UpdatedAt = stored.UpdatedAt
	return nil
}

// sorted - копии всех участников по возрастанию id
func (r *memoryMemberRepository) sorted() []*domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := lo.MapToSlice(r.members, func(_ string, m *domain.Member) *domain.Member {
		cp := *m
		return &cp
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
