package repository

import (
	"context"
	"fmt"

	"pereval-backend/internal/models"
)

// AttachImages inserts one image row per entry, each stamped with the
// owning pass id. An empty slice is a no-op.
func (s *store) AttachImages(ctx context.Context, passID int64, images []models.ImageUpload) error {
	query := `
		INSERT INTO images (image_url, title, pass_id)
		VALUES ($1, $2, $3)
	`
	for _, img := range images {
		if _, err := s.db.Exec(ctx, query, img.ImageURL, img.Title, passID); err != nil {
			return fmt.Errorf("failed to attach image to pass %d: %w", passID, err)
		}
	}
	return nil
}

// ListImagesByPass returns all images belonging to a pass.
func (s *store) ListImagesByPass(ctx context.Context, passID int64) ([]models.Image, error) {
	query := `
		SELECT id, image_url, title, pass_id
		FROM images
		WHERE pass_id = $1
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, passID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images for pass %d: %w", passID, err)
	}
	defer rows.Close()

	images := make([]models.Image, 0)
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.ImageURL, &img.Title, &img.PassID); err != nil {
			return nil, fmt.Errorf("failed to scan image for pass %d: %w", passID, err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images for pass %d: %w", passID, err)
	}
	return images, nil
}

// UpdateImage overwrites url and title of an existing image. Patching can
// never introduce new images, so a missing id is an error.
func (s *store) UpdateImage(ctx context.Context, id int64, imageURL, title string) error {
	query := `UPDATE images SET image_url = $1, title = $2 WHERE id = $3`

	result, err := s.db.Exec(ctx, query, imageURL, title, id)
	if err != nil {
		return fmt.Errorf("failed to update image %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}
