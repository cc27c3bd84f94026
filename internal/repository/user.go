package repository

import (
	"context"
	"errors"
	"fmt"

	"pereval-backend/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FindUserByID retrieves a user by id.
func (s *store) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, fam, name, otc, phone
		FROM users
		WHERE id = $1
	`
	var u models.User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Fam, &u.Name, &u.Otc, &u.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	return &u, nil
}

// FindUserByEmail retrieves a user by email.
func (s *store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, fam, name, otc, phone
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Fam, &u.Name, &u.Otc, &u.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// ListUsers returns users in natural order with offset/limit bounds.
func (s *store) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	query := `
		SELECT id, email, fam, name, otc, phone
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Fam, &u.Name, &u.Otc, &u.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CreateOrReuseUser returns the id of the user with the given email,
// inserting a new row only when the email is unseen. Field values supplied
// for an already-known email are discarded. ON CONFLICT keeps the
// email-dedup race safe inside a transaction; a remaining unique violation
// can only be the phone column and surfaces as ErrPhoneConflict.
func (s *store) CreateOrReuseUser(ctx context.Context, u models.User) (int64, error) {
	existing, err := s.FindUserByEmail(ctx, u.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return 0, err
	}

	query := `
		INSERT INTO users (email, fam, name, otc, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	var id int64
	err = s.db.QueryRow(ctx, query, u.Email, u.Fam, u.Name, u.Otc, u.Phone).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the insert race; the row exists now.
			winner, findErr := s.FindUserByEmail(ctx, u.Email)
			if findErr != nil {
				return 0, fmt.Errorf("failed to re-read user after conflict: %w", findErr)
			}
			return winner.ID, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("phone %q already registered: %w", u.Phone, ErrPhoneConflict)
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}
