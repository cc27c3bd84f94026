package repository

import (
	"context"
	"errors"
	"fmt"

	"pereval-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// CreateCoords inserts a coordinate row. Every submission gets its own row;
// there is no dedup on coordinate values.
func (s *store) CreateCoords(ctx context.Context, c models.Coords) (int64, error) {
	query := `
		INSERT INTO coords (latitude, longitude, height)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRow(ctx, query, c.Latitude, c.Longitude, c.Height).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create coords: %w", err)
	}
	return id, nil
}

// FindCoordsByID retrieves a coordinate row by id.
func (s *store) FindCoordsByID(ctx context.Context, id int64) (*models.Coords, error) {
	query := `
		SELECT id, latitude, longitude, height
		FROM coords
		WHERE id = $1
	`
	var c models.Coords
	err := s.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Latitude, &c.Longitude, &c.Height)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoordsNotFound
		}
		return nil, fmt.Errorf("failed to get coords by id %d: %w", id, err)
	}
	return &c, nil
}

// UpdateCoords overwrites latitude, longitude and height in place.
func (s *store) UpdateCoords(ctx context.Context, id int64, c models.Coords) error {
	query := `
		UPDATE coords
		SET latitude = $1, longitude = $2, height = $3
		WHERE id = $4
	`
	result, err := s.db.Exec(ctx, query, c.Latitude, c.Longitude, c.Height, id)
	if err != nil {
		return fmt.Errorf("failed to update coords %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrCoordsNotFound
	}
	return nil
}
