//go:generate go run go.uber.org/mock/mockgen -source=member.go -destination=mocks/mock_member_repository.go -package=mocks

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindByName(ctx context.Context, name string) ([]*domain.Member, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
}

type memberRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMemberRepository(db *pgxpool.Pool, log logger.Logger) MemberRepository {
	return &memberRepository{db: db, log: log}
}

const memberColumns = `id, password_hash, name, status_message, role, created_at, updated_at`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, password_hash, name, status_message, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		member.ID, member.PasswordHash, member.Name, member.StatusMessage,
		member.Role, member.CreatedAt, member.UpdatedAt,
	).Scan(&member.CreatedAt, &member.UpdatedAt)

	if err != nil {
		err = translatePgError(err)
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			r.log.Warn("Member already exists (unique violation)", "member_id", member.ID)
			return fmt.Errorf("member %q already exists: %w", member.ID, apperrors.ErrDuplicateKey)
		}
		r.log.Error("Failed to create member", "error", err, "member_id", member.ID)
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member %q: %w", id, apperrors.ErrNotFound)
		}
		r.log.Error("Failed to get member by ID", "error", err, "member_id", id)
		return nil, err
	}

	return member, nil
}

func (r *memberRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check member existence", "error", err, "member_id", id)
		return false, err
	}
	return exists, nil
}

func (r *memberRepository) FindByName(ctx context.Context, name string) ([]*domain.Member, error) {
	name = strings.TrimSpace(name)
	query := `SELECT ` + memberColumns + ` FROM members WHERE name = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		r.log.Error("Failed to find members by name", "error", err, "name", name)
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *memberRepository) List(ctx context.Context, limit, offset int) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list members", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET password_hash = $2, name = $3, status_message = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		member.ID, member.PasswordHash, member.Name, member.StatusMessage, time.Now().UTC(),
	).Scan(&member.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("member %q: %w", member.ID, apperrors.ErrNotFound)
		}
		r.log.Error("Failed to update member", "error", err, "member_id", member.ID)
		return err
	}

	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	m := &domain.Member{}
	err := row.Scan(&m.ID, &m.PasswordHash, &m.Name, &m.StatusMessage, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func collectMembers(rows pgx.Rows) ([]*domain.Member, error) {
	members := []*domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
