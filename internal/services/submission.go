package services

import (
	"context"
	"errors"
	"fmt"

	"pereval-backend/internal/models"
	"pereval-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

var (
	// ErrStoreUnavailable means the database could not be reached before any
	// work began. It is the only failure surfaced as a 5xx at the boundary.
	ErrStoreUnavailable = errors.New("database unavailable")

	ErrPassNotFound     = errors.New("pass not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrPassOnModeration = errors.New("pass is on moderation and cannot be edited")

	ErrCreateUser   = errors.New("failed to create user")
	ErrCreateCoords = errors.New("failed to create coords")
	ErrCreatePass   = errors.New("failed to create pass")
	ErrAttachImages = errors.New("failed to attach images")
)

// Submissions is the submission workflow: multi-entity creation, nested
// document reads and moderation-gated updates.
type Submissions interface {
	Create(ctx context.Context, req models.SubmitRequest) (int64, error)
	GetPassDetail(ctx context.Context, id int64) (*models.PassDetail, error)
	SearchByUserEmail(ctx context.Context, email string) ([]models.PassDetail, error)
	Update(ctx context.Context, id int64, patch models.PassPatch) error
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
}

type submissionService struct {
	store repository.Store
}

// NewSubmissionService creates the submission workflow service.
func NewSubmissionService(store repository.Store) Submissions {
	return &submissionService{store: store}
}

// Create persists a full submission: user (reused by email), coords, pass,
// images. The whole sequence runs in one transaction, so a failed step
// leaves nothing behind. The pass always starts in status "new".
func (s *submissionService) Create(ctx context.Context, req models.SubmitRequest) (int64, error) {
	if err := s.store.Ping(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var passID int64
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		userID, err := tx.CreateOrReuseUser(ctx, req.User)
		if err != nil {
			log.Error().Err(err).Str("email", req.User.Email).Msg("submission: user step failed")
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		coordsID, err := tx.CreateCoords(ctx, req.Coords)
		if err != nil {
			log.Error().Err(err).Msg("submission: coords step failed")
			return fmt.Errorf("%w: %v", ErrCreateCoords, err)
		}

		passID, err = tx.CreatePass(ctx, models.Pass{
			BeautyTitle: req.BeautyTitle,
			Title:       req.Title,
			OtherTitles: req.OtherTitles,
			Connect:     req.Connect,
			AddTime:     req.AddTime,
			Winter:      req.Winter,
			Summer:      req.Summer,
			Autumn:      req.Autumn,
			Spring:      req.Spring,
			UserID:      userID,
			CoordsID:    &coordsID,
			Status:      models.StatusNew,
		})
		if err != nil {
			log.Error().Err(err).Msg("submission: pass step failed")
			return fmt.Errorf("%w: %v", ErrCreatePass, err)
		}

		if err := tx.AttachImages(ctx, passID, req.Images); err != nil {
			log.Error().Err(err).Int64("pass_id", passID).Msg("submission: image step failed")
			return fmt.Errorf("%w: %v", ErrAttachImages, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int64("pass_id", passID).Str("email", req.User.Email).Msg("Submission created")
	return passID, nil
}

// GetPassDetail assembles the nested document for one pass: the pass row
// plus its user, coords and images, each fetched by reference.
func (s *submissionService) GetPassDetail(ctx context.Context, id int64) (*models.PassDetail, error) {
	pass, err := s.store.GetPassByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPassNotFound) {
			return nil, ErrPassNotFound
		}
		return nil, fmt.Errorf("failed to load pass %d: %w", id, err)
	}
	return s.expandPass(ctx, *pass, nil)
}

// SearchByUserEmail returns the nested documents of every pass reported by
// the user with the given email. A known user with no passes yields an
// empty slice; an unknown email yields ErrUserNotFound.
func (s *submissionService) SearchByUserEmail(ctx context.Context, email string) ([]models.PassDetail, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	passes, err := s.store.ListPassesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes for user %d: %w", user.ID, err)
	}

	// One user lookup shared across all results; coords and images are
	// fetched per pass.
	details := make([]models.PassDetail, 0, len(passes))
	for _, pass := range passes {
		detail, err := s.expandPass(ctx, pass, user)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *submissionService) expandPass(ctx context.Context, pass models.Pass, user *models.User) (*models.PassDetail, error) {
	detail := models.PassDetail{Pass: pass, User: user}

	if user == nil {
		u, err := s.store.FindUserByID(ctx, pass.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user %d for pass %d: %w", pass.UserID, pass.ID, err)
		}
		detail.User = u
	}

	if pass.CoordsID != nil {
		coords, err := s.store.FindCoordsByID(ctx, *pass.CoordsID)
		if err != nil {
			return nil, fmt.Errorf("failed to load coords %d for pass %d: %w", *pass.CoordsID, pass.ID, err)
		}
		detail.Coords = coords
	}

	images, err := s.store.ListImagesByPass(ctx, pass.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images for pass %d: %w", pass.ID, err)
	}
	detail.Images = images

	return &detail, nil
}

// Update patches a pass that is still in status "new". Passes already in
// moderation (pending, accepted, rejected) are rejected with
// ErrPassOnModeration and nothing changes. All writes share a transaction.
func (s *submissionService) Update(ctx context.Context, id int64, patch models.PassPatch) error {
	pass, err := s.store.GetPassByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPassNotFound) {
			return ErrPassNotFound
		}
		return fmt.Errorf("failed to load pass %d: %w", id, err)
	}

	if !pass.Status.Editable() {
		log.Warn().Int64("pass_id", id).Str("status", pass.Status.String()).Msg("Edit rejected by moderation gate")
		return ErrPassOnModeration
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdatePassFields(ctx, id, patch); err != nil {
			return fmt.Errorf("failed to update pass fields: %w", err)
		}

		if patch.Coords != nil {
			if pass.CoordsID != nil {
				// The pass already owns a coordinate row; mutate it in place.
				if err := tx.UpdateCoords(ctx, *pass.CoordsID, *patch.Coords); err != nil {
					return fmt.Errorf("failed to update coords: %w", err)
				}
			} else {
				coordsID, err := tx.CreateCoords(ctx, *patch.Coords)
				if err != nil {
					return fmt.Errorf("failed to create coords: %w", err)
				}
				if err := tx.SetPassCoords(ctx, id, coordsID); err != nil {
					return fmt.Errorf("failed to link coords: %w", err)
				}
			}
		}

		// Patches can only modify existing images, never add new ones.
		for _, img := range patch.Images {
			if err := tx.UpdateImage(ctx, img.ID, img.ImageURL, img.Title); err != nil {
				if errors.Is(err, repository.ErrImageNotFound) {
					return fmt.Errorf("%w: id %d", ErrImageNotFound, img.ID)
				}
				return fmt.Errorf("failed to update image %d: %w", img.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int64("pass_id", id).Msg("Submission updated")
	return nil
}

// ListUsers returns a bounded slice of users.
func (s *submissionService) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	users, err := s.store.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
