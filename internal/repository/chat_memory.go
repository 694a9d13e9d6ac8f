package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

// memoryChatRepository хранит сообщения в памяти процесса.
// Используется без DATABASE_DSN и в тестах сервиса.
type memoryChatRepository struct {
	mu      sync.RWMutex
	nextID  int64
	chats   []*domain.PersonalChat // по возрастанию id
	members MemberRepository
	log     logger.Logger
}

// NewMemoryChatRepository: members, если задан, проверяет участников как внешний ключ
func NewMemoryChatRepository(members MemberRepository, log logger.Logger) ChatRepository {
	return &memoryChatRepository{nextID: 1, members: members, log: log}
}

func (r *memoryChatRepository) Insert(ctx context.Context, chat *domain.PersonalChat) error {
	if r.members != nil {
		for _, id := range []string{chat.SenderID, chat.ReceiverID} {
			ok, err := r.members.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("member %q: %w", id, apperrors.ErrNotFound)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	chat.ID = r.nextID
	chat.IsRead = false
	chat.IsDeleted = false
	r.nextID++

	r.chats = append(r.chats, chat.Clone())
	return nil
}

func (r *memoryChatRepository) QueryByFilter(_ context.Context, filter domain.Filter, page domain.PageRequest) ([]*domain.PersonalChat, error) {
	if page.PageSize < 1 || page.Exhausted() {
		return []*domain.PersonalChat{}, nil
	}
	if filter.Kind > domain.FilterByGroup || filter.Kind < domain.FilterAll {
		return nil, fmt.Errorf("unsupported filter kind %d", filter.Kind)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// первая позиция, не проходящая курсор
	end := len(r.chats)
	if page.LastSeenID != nil {
		end = sort.Search(len(r.chats), func(i int) bool { return r.chats[i].ID >= *page.LastSeenID })
	}

	out := make([]*domain.PersonalChat, 0, page.PageSize)
	for i := end - 1; i >= 0 && len(out) < page.PageSize; i-- {
		if filter.Match(r.chats[i]) {
			out = append(out, r.chats[i].Clone())
		}
	}

	return out, nil
}

func (r *memoryChatRepository) FindByID(_ context.Context, id int64) (*domain.PersonalChat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c := r.find(id); c != nil {
		return c.Clone(), nil
	}
	return nil, nil
}

func (r *memoryChatRepository) UpdateReadFlag(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(id)
	if c == nil {
		return 0, nil
	}
	c.IsRead = true
	return 1, nil
}

func (r *memoryChatRepository) UpdateDeletedFlag(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(id)
	if c == nil {
		return 0, nil
	}
	c.IsDeleted = true
	return 1, nil
}

// find вызывается под блокировкой
func (r *memoryChatRepository) find(id int64) *domain.PersonalChat {
	i := sort.Search(len(r.chats), func(i int) bool { return r.chats[i].ID >= id })
	if i < len(r.chats) && r.chats[i].ID == id {
		return r.chats[i]
	}
	return nil
}
