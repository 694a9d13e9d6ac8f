package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "messenger/pkg/errors"
)

// PersonalChat - сообщение 1:1 между двумя участниками
type PersonalChat struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
	IsDeleted  bool      `json:"is_deleted"`
}

// GroupKey - ключ переписки, не зависит от порядка участников
type GroupKey string

// Canonicalize сортирует пару и кодирует её как "<len(lo)>:<lo>|<hi>".
// Префикс длины делает кодирование однозначным для любых строк.
func Canonicalize(a, b string) (GroupKey, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return "", fmt.Errorf("participant id is required: %w", apperrors.ErrInvalidArgument)
	}

	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}

	return GroupKey(strconv.Itoa(len(lo)) + ":" + lo + "|" + hi), nil
}

// Participants разбирает ключ обратно на пару (lo, hi)
func (k GroupKey) Participants() (string, string, bool) {
	s := string(k)
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return "", "", false
	}

	n, err := strconv.Atoi(s[:colon])
	if err != nil || n <= 0 {
		return "", "", false
	}

	rest := s[colon+1:]
	if len(rest) < n+1 || rest[n] != '|' {
		return "", "", false
	}

	return rest[:n], rest[n+1:], true
}

func (k GroupKey) String() string {
	return string(k)
}

// GroupKey записи. Участники проверены при создании, поэтому ошибка здесь невозможна.
func (c *PersonalChat) GroupKey() GroupKey {
	key, _ := Canonicalize(c.SenderID, c.ReceiverID)
	return key
}

// Clone - копия для выдачи наружу из хранилища
func (c *PersonalChat) Clone() *PersonalChat {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

const (
	DefaultPageSize      = 3
	DefaultMaxPageSize   = 100
	DefaultMaxContentLen = 4096
)
