package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pereval-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const passColumns = `
	id, beauty_title, title, other_titles, connect, add_time, date_added,
	winter, summer, autumn, spring, user_id, coords_id, status
`

// CreatePass inserts a pass referencing already-resolved user and coords
// ids. Status is always forced to "new" and date_added is the server clock,
// whatever the caller supplied.
func (s *store) CreatePass(ctx context.Context, p models.Pass) (int64, error) {
	query := `
		INSERT INTO passes (beauty_title, title, other_titles, connect, add_time, date_added,
			winter, summer, autumn, spring, user_id, coords_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRow(ctx, query,
		p.BeautyTitle, p.Title, p.OtherTitles, p.Connect, p.AddTime, time.Now().UTC(),
		p.Winter, p.Summer, p.Autumn, p.Spring, p.UserID, p.CoordsID, models.StatusNew,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create pass: %w", err)
	}
	return id, nil
}

// GetPassByID retrieves a single pass row.
func (s *store) GetPassByID(ctx context.Context, id int64) (*models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`

	var p models.Pass
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.BeautyTitle, &p.Title, &p.OtherTitles, &p.Connect, &p.AddTime, &p.DateAdded,
		&p.Winter, &p.Summer, &p.Autumn, &p.Spring, &p.UserID, &p.CoordsID, &p.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, fmt.Errorf("failed to get pass by id %d: %w", id, err)
	}
	return &p, nil
}

// ListPassesByUser returns every pass referencing the given user, in
// natural id order.
func (s *store) ListPassesByUser(ctx context.Context, userID int64) ([]models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query passes for user %d: %w", userID, err)
	}
	defer rows.Close()

	passes := make([]models.Pass, 0)
	for rows.Next() {
		var p models.Pass
		err := rows.Scan(
			&p.ID, &p.BeautyTitle, &p.Title, &p.OtherTitles, &p.Connect, &p.AddTime, &p.DateAdded,
			&p.Winter, &p.Summer, &p.Autumn, &p.Spring, &p.UserID, &p.CoordsID, &p.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pass for user %d: %w", userID, err)
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passes for user %d: %w", userID, err)
	}
	return passes, nil
}

// UpdatePassFields overwrites the editable title, connect and seasonal
// grade fields. Status, references and timestamps are untouched here.
func (s *store) UpdatePassFields(ctx context.Context, id int64, patch models.PassPatch) error {
	query := `
		UPDATE passes
		SET beauty_title = $1, title = $2, other_titles = $3, connect = $4,
			winter = $5, summer = $6, autumn = $7, spring = $8
		WHERE id = $9
	`
	result, err := s.db.Exec(ctx, query,
		patch.BeautyTitle, patch.Title, patch.OtherTitles, patch.Connect,
		patch.Winter, patch.Summer, patch.Autumn, patch.Spring, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update pass %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrPassNotFound
	}
	return nil
}

// SetPassCoords links a pass to a coordinate row.
func (s *store) SetPassCoords(ctx context.Context, id, coordsID int64) error {
	query := `UPDATE passes SET coords_id = $1 WHERE id = $2`

	result, err := s.db.Exec(ctx, query, coordsID, id)
	if err != nil {
		return fmt.Errorf("failed to set coords for pass %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrPassNotFound
	}
	return nil
}
