package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/reservation-desk/backend/internal/model"
)

const userColumns = `id, username, email, password_hash, image_ref, birthday, role, is_enabled, created_at, updated_at`

func (db *Postgres) EnsureAuthSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(20) NOT NULL UNIQUE,
			email VARCHAR(50) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			image_ref TEXT NOT NULL DEFAULT '',
			birthday TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('root', 'admin', 'member')),
			is_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, image_ref, birthday, role, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	row := db.Pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ImageRef,
		user.Birthday,
		user.Role,
		user.IsEnabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return scanUser(row)
}

// FindUsersByUsernameOrEmail - 가입 시 username/email 충돌을 한 번에 조회
func (db *Postgres) FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2`
	rows, err := db.Pool.Query(ctx, query, username, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, username))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, username ASC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser - username 을 키로 수정 가능한 필드 전체를 덮어씀
func (db *Postgres) UpdateUser(ctx context.Context, user model.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, image_ref = $4, birthday = $5, updated_at = $6
		WHERE username = $1
	`
	tag, err := db.Pool.Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ImageRef,
		user.Birthday,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateImageRef - 이전 image_ref 를 돌려줘서 호출자가 기존 오브젝트를 정리할 수 있게 함
func (db *Postgres) UpdateImageRef(ctx context.Context, username, imageRef string) (string, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var previous string
	err = tx.QueryRow(ctx, `SELECT image_ref FROM users WHERE username = $1 FOR UPDATE`, username).Scan(&previous)
	if err != nil {
		return "", err
	}

	query := `
		UPDATE users
		SET image_ref = $2, updated_at = NOW()
		WHERE username = $1
	`
	if _, err := tx.Exec(ctx, query, username, imageRef); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return previous, nil
}

func (db *Postgres) DeleteUser(ctx context.Context, username string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ImageRef,
		&user.Birthday,
		&user.Role,
		&user.IsEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
