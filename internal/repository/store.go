package repository

import (
	"context"
	"errors"
	"fmt"

	"pereval-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrPassNotFound   = errors.New("pass not found")
	ErrCoordsNotFound = errors.New("coords not found")
	ErrImageNotFound  = errors.New("image not found")
	ErrPhoneConflict  = errors.New("phone already registered")
)

// Querier is the subset of pgx operations the store needs. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same query code runs inside
// and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the persistence contract for submissions. WithTx runs the given
// function against a transaction-backed Store and commits if it returns nil.
type Store interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	CreateOrReuseUser(ctx context.Context, u models.User) (int64, error)

	CreateCoords(ctx context.Context, c models.Coords) (int64, error)
	FindCoordsByID(ctx context.Context, id int64) (*models.Coords, error)
	UpdateCoords(ctx context.Context, id int64, c models.Coords) error

	CreatePass(ctx context.Context, p models.Pass) (int64, error)
	GetPassByID(ctx context.Context, id int64) (*models.Pass, error)
	ListPassesByUser(ctx context.Context, userID int64) ([]models.Pass, error)
	UpdatePassFields(ctx context.Context, id int64, patch models.PassPatch) error
	SetPassCoords(ctx context.Context, id, coordsID int64) error

	AttachImages(ctx context.Context, passID int64, images []models.ImageUpload) error
	ListImagesByPass(ctx context.Context, passID int64) ([]models.Image, error)
	UpdateImage(ctx context.Context, id int64, imageURL, title string) error

	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

type store struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{db: pool, pool: pool}
}

func (s *store) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&store{db: tx, pool: s.pool}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
