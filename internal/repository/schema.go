package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "messenger/pkg/errors"
)

// Schema - DDL, который применяет команда migrate
const Schema = `
CREATE TABLE IF NOT EXISTS members (
	id             TEXT PRIMARY KEY,
	password_hash  TEXT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	status_message TEXT NOT NULL DEFAULT '',
	role           TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_members_name ON members (name);

CREATE TABLE IF NOT EXISTS personal_chats (
	id          BIGSERIAL PRIMARY KEY,
	sender_id   TEXT NOT NULL REFERENCES members(id),
	receiver_id TEXT NOT NULL REFERENCES members(id),
	group_key   TEXT NOT NULL,
	content     TEXT NOT NULL CHECK (char_length(content) > 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_read     BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_personal_chats_group_id ON personal_chats (group_key, id DESC);
CREATE INDEX IF NOT EXISTS idx_personal_chats_sender_id ON personal_chats (sender_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_personal_chats_receiver_id ON personal_chats (receiver_id, id DESC);

CREATE TABLE IF NOT EXISTS audit_log (
	id         BIGSERIAL PRIMARY KEY,
	event_time TIMESTAMPTZ NOT NULL DEFAULT now(),
	actor_id   TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload    JSONB NOT NULL DEFAULT '{}'::jsonb
);
`

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError переводит ошибки ограничений PostgreSQL в ошибки приложения
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperrors.ErrDuplicateKey)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperrors.ErrNotFound)
	default:
		return err
	}
}
