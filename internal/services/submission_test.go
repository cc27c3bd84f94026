package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pereval-backend/internal/models"
	"pereval-backend/internal/repository"
	"pereval-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	findUserByIDFunc      func(ctx context.Context, id int64) (*models.User, error)
	findUserByEmailFunc   func(ctx context.Context, email string) (*models.User, error)
	listUsersFunc         func(ctx context.Context, skip, limit int) ([]models.User, error)
	createOrReuseUserFunc func(ctx context.Context, u models.User) (int64, error)
	createCoordsFunc      func(ctx context.Context, c models.Coords) (int64, error)
	findCoordsByIDFunc    func(ctx context.Context, id int64) (*models.Coords, error)
	updateCoordsFunc      func(ctx context.Context, id int64, c models.Coords) error
	createPassFunc        func(ctx context.Context, p models.Pass) (int64, error)
	getPassByIDFunc       func(ctx context.Context, id int64) (*models.Pass, error)
	listPassesByUserFunc  func(ctx context.Context, userID int64) ([]models.Pass, error)
	updatePassFieldsFunc  func(ctx context.Context, id int64, patch models.PassPatch) error
	setPassCoordsFunc     func(ctx context.Context, id, coordsID int64) error
	attachImagesFunc      func(ctx context.Context, passID int64, images []models.ImageUpload) error
	listImagesByPassFunc  func(ctx context.Context, passID int64) ([]models.Image, error)
	updateImageFunc       func(ctx context.Context, id int64, imageURL, title string) error
	pingErr               error
}

func (m *mockStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return m.findUserByIDFunc(ctx, id)
}

func (m *mockStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUserByEmailFunc(ctx, email)
}

func (m *mockStore) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	return m.listUsersFunc(ctx, skip, limit)
}

func (m *mockStore) CreateOrReuseUser(ctx context.Context, u models.User) (int64, error) {
	return m.createOrReuseUserFunc(ctx, u)
}

func (m *mockStore) CreateCoords(ctx context.Context, c models.Coords) (int64, error) {
	return m.createCoordsFunc(ctx, c)
}

func (m *mockStore) FindCoordsByID(ctx context.Context, id int64) (*models.Coords, error) {
	return m.findCoordsByIDFunc(ctx, id)
}

func (m *mockStore) UpdateCoords(ctx context.Context, id int64, c models.Coords) error {
	return m.updateCoordsFunc(ctx, id, c)
}

func (m *mockStore) CreatePass(ctx context.Context, p models.Pass) (int64, error) {
	return m.createPassFunc(ctx, p)
}

func (m *mockStore) GetPassByID(ctx context.Context, id int64) (*models.Pass, error) {
	return m.getPassByIDFunc(ctx, id)
}

func (m *mockStore) ListPassesByUser(ctx context.Context, userID int64) ([]models.Pass, error) {
	return m.listPassesByUserFunc(ctx, userID)
}

func (m *mockStore) UpdatePassFields(ctx context.Context, id int64, patch models.PassPatch) error {
	return m.updatePassFieldsFunc(ctx, id, patch)
}

func (m *mockStore) SetPassCoords(ctx context.Context, id, coordsID int64) error {
	return m.setPassCoordsFunc(ctx, id, coordsID)
}

func (m *mockStore) AttachImages(ctx context.Context, passID int64, images []models.ImageUpload) error {
	return m.attachImagesFunc(ctx, passID, images)
}

func (m *mockStore) ListImagesByPass(ctx context.Context, passID int64) ([]models.Image, error) {
	return m.listImagesByPassFunc(ctx, passID)
}

func (m *mockStore) UpdateImage(ctx context.Context, id int64, imageURL, title string) error {
	return m.updateImageFunc(ctx, id, imageURL, title)
}

func (m *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func submitRequest() models.SubmitRequest {
	return models.SubmitRequest{
		BeautyTitle: "пер. ",
		Title:       "Пхия",
		OtherTitles: "Триев",
		Connect:     "",
		AddTime:     time.Date(2021, 9, 22, 13, 18, 13, 0, time.UTC),
		Winter:      "1B",
		Summer:      "1A",
		Autumn:      "1A",
		Spring:      "1B",
		User: models.User{
			Email: "qwerty@mail.ru",
			Fam:   "Пупкин",
			Name:  "Василий",
			Otc:   "Иванович",
			Phone: "79270123456",
		},
		Coords: models.Coords{Latitude: 45.3842, Longitude: 7.1525, Height: 1200},
		Images: []models.ImageUpload{
			{ImageURL: "https://example.com/1.jpg", Title: "Седловина"},
			{ImageURL: "https://example.com/2.jpg", Title: "Подъем"},
		},
	}
}

func TestSubmissionService_Create(t *testing.T) {
	var createdPass models.Pass
	var attachedTo int64
	var attached []models.ImageUpload

	store := &mockStore{
		createOrReuseUserFunc: func(ctx context.Context, u models.User) (int64, error) {
			return 7, nil
		},
		createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
			return 11, nil
		},
		createPassFunc: func(ctx context.Context, p models.Pass) (int64, error) {
			createdPass = p
			return 42, nil
		},
		attachImagesFunc: func(ctx context.Context, passID int64, images []models.ImageUpload) error {
			attachedTo = passID
			attached = images
			return nil
		},
	}

	svc := services.NewSubmissionService(store)
	id, err := svc.Create(context.Background(), submitRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, models.StatusNew, createdPass.Status)
	assert.Equal(t, int64(7), createdPass.UserID)
	require.NotNil(t, createdPass.CoordsID)
	assert.Equal(t, int64(11), *createdPass.CoordsID)
	assert.Equal(t, int64(42), attachedTo)
	assert.Len(t, attached, 2)
}

func TestSubmissionService_Create_StepFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		store     *mockStore
		wantErrIs error
	}{
		{
			name: "user_step_fails",
			store: &mockStore{
				createOrReuseUserFunc: func(ctx context.Context, u models.User) (int64, error) {
					return 0, boom
				},
			},
			wantErrIs: services.ErrCreateUser,
		},
		{
			name: "coords_step_fails",
			store: &mockStore{
				createOrReuseUserFunc: func(ctx context.Context, u models.User) (int64, error) {
					return 7, nil
				},
				createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
					return 0, boom
				},
			},
			wantErrIs: services.ErrCreateCoords,
		},
		{
			name: "pass_step_fails",
			store: &mockStore{
				createOrReuseUserFunc: func(ctx context.Context, u models.User) (int64, error) {
					return 7, nil
				},
				createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
					return 11, nil
				},
				createPassFunc: func(ctx context.Context, p models.Pass) (int64, error) {
					return 0, boom
				},
			},
			wantErrIs: services.ErrCreatePass,
		},
		{
			name: "image_step_fails",
			store: &mockStore{
				createOrReuseUserFunc: func(ctx context.Context, u models.User) (int64, error) {
					return 7, nil
				},
				createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
					return 11, nil
				},
				createPassFunc: func(ctx context.Context, p models.Pass) (int64, error) {
					return 42, nil
				},
				attachImagesFunc: func(ctx context.Context, passID int64, images []models.ImageUpload) error {
					return boom
				},
			},
			wantErrIs: services.ErrAttachImages,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewSubmissionService(tt.store)
			_, err := svc.Create(context.Background(), submitRequest())
			assert.ErrorIs(t, err, tt.wantErrIs)
		})
	}
}

func TestSubmissionService_Create_StoreUnavailable(t *testing.T) {
	store := &mockStore{pingErr: errors.New("dial error")}
	svc := services.NewSubmissionService(store)

	_, err := svc.Create(context.Background(), submitRequest())
	assert.ErrorIs(t, err, services.ErrStoreUnavailable)
}

func TestSubmissionService_GetPassDetail(t *testing.T) {
	coordsID := int64(11)

	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			if id != 42 {
				return nil, repository.ErrPassNotFound
			}
			return &models.Pass{ID: 42, Title: "Пхия", UserID: 7, CoordsID: &coordsID, Status: models.StatusNew}, nil
		},
		findUserByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: 7, Email: "qwerty@mail.ru"}, nil
		},
		findCoordsByIDFunc: func(ctx context.Context, id int64) (*models.Coords, error) {
			return &models.Coords{ID: 11, Latitude: 45.3842, Longitude: 7.1525, Height: 1200}, nil
		},
		listImagesByPassFunc: func(ctx context.Context, passID int64) ([]models.Image, error) {
			return []models.Image{{ID: 1, ImageURL: "https://example.com/1.jpg", Title: "Седловина", PassID: 42}}, nil
		},
	}

	svc := services.NewSubmissionService(store)

	detail, err := svc.GetPassDetail(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	assert.Equal(t, "qwerty@mail.ru", detail.User.Email)
	require.NotNil(t, detail.Coords)
	assert.Equal(t, 1200, detail.Coords.Height)
	assert.Len(t, detail.Images, 1)

	_, err = svc.GetPassDetail(context.Background(), 99)
	assert.ErrorIs(t, err, services.ErrPassNotFound)
}

func TestSubmissionService_SearchByUserEmail(t *testing.T) {
	t.Run("unknown_email", func(t *testing.T) {
		store := &mockStore{
			findUserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return nil, repository.ErrUserNotFound
			},
		}
		svc := services.NewSubmissionService(store)

		details, err := svc.SearchByUserEmail(context.Background(), "nobody@mail.ru")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
		assert.Nil(t, details)
	})

	t.Run("known_email_no_passes", func(t *testing.T) {
		store := &mockStore{
			findUserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{ID: 7, Email: email}, nil
			},
			listPassesByUserFunc: func(ctx context.Context, userID int64) ([]models.Pass, error) {
				return []models.Pass{}, nil
			},
		}
		svc := services.NewSubmissionService(store)

		details, err := svc.SearchByUserEmail(context.Background(), "qwerty@mail.ru")
		require.NoError(t, err)
		assert.NotNil(t, details)
		assert.Empty(t, details)
	})

	t.Run("single_user_lookup_shared", func(t *testing.T) {
		userByIDCalls := 0
		coordsID := int64(11)

		store := &mockStore{
			findUserByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
				return &models.User{ID: 7, Email: email}, nil
			},
			findUserByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
				userByIDCalls++
				return &models.User{ID: id}, nil
			},
			listPassesByUserFunc: func(ctx context.Context, userID int64) ([]models.Pass, error) {
				return []models.Pass{
					{ID: 1, UserID: 7, CoordsID: &coordsID, Status: models.StatusNew},
					{ID: 2, UserID: 7, CoordsID: &coordsID, Status: models.StatusAccepted},
				}, nil
			},
			findCoordsByIDFunc: func(ctx context.Context, id int64) (*models.Coords, error) {
				return &models.Coords{ID: id}, nil
			},
			listImagesByPassFunc: func(ctx context.Context, passID int64) ([]models.Image, error) {
				return []models.Image{}, nil
			},
		}
		svc := services.NewSubmissionService(store)

		details, err := svc.SearchByUserEmail(context.Background(), "qwerty@mail.ru")
		require.NoError(t, err)
		require.Len(t, details, 2)
		assert.Zero(t, userByIDCalls)
		for _, d := range details {
			require.NotNil(t, d.User)
			assert.Equal(t, int64(7), d.User.ID)
		}
	})
}

func TestSubmissionService_Update_ModerationGate(t *testing.T) {
	for _, status := range []models.Status{models.StatusPending, models.StatusAccepted, models.StatusRejected} {
		t.Run(status.String(), func(t *testing.T) {
			writes := 0
			store := &mockStore{
				getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
					return &models.Pass{ID: id, Status: status}, nil
				},
				updatePassFieldsFunc: func(ctx context.Context, id int64, patch models.PassPatch) error {
					writes++
					return nil
				},
			}
			svc := services.NewSubmissionService(store)

			err := svc.Update(context.Background(), 42, models.PassPatch{Title: "Дождь"})
			assert.ErrorIs(t, err, services.ErrPassOnModeration)
			assert.Zero(t, writes)
		})
	}
}

func TestSubmissionService_Update_NotFound(t *testing.T) {
	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			return nil, repository.ErrPassNotFound
		},
	}
	svc := services.NewSubmissionService(store)

	err := svc.Update(context.Background(), 42, models.PassPatch{})
	assert.ErrorIs(t, err, services.ErrPassNotFound)
}

func TestSubmissionService_Update_CoordsInPlace(t *testing.T) {
	coordsID := int64(11)
	var updatedCoordsID int64
	coordsCreated := 0

	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			return &models.Pass{ID: id, Status: models.StatusNew, CoordsID: &coordsID}, nil
		},
		updatePassFieldsFunc: func(ctx context.Context, id int64, patch models.PassPatch) error {
			return nil
		},
		updateCoordsFunc: func(ctx context.Context, id int64, c models.Coords) error {
			updatedCoordsID = id
			return nil
		},
		createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
			coordsCreated++
			return 99, nil
		},
	}
	svc := services.NewSubmissionService(store)

	err := svc.Update(context.Background(), 42, models.PassPatch{
		Coords: &models.Coords{Latitude: 32.254, Longitude: 98.541, Height: 1110},
	})
	require.NoError(t, err)
	assert.Equal(t, coordsID, updatedCoordsID)
	assert.Zero(t, coordsCreated, "existing coords must be mutated, not replaced")
}

func TestSubmissionService_Update_CoordsCreatedWhenMissing(t *testing.T) {
	var linkedPassID, linkedCoordsID int64

	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			return &models.Pass{ID: id, Status: models.StatusNew, CoordsID: nil}, nil
		},
		updatePassFieldsFunc: func(ctx context.Context, id int64, patch models.PassPatch) error {
			return nil
		},
		createCoordsFunc: func(ctx context.Context, c models.Coords) (int64, error) {
			return 99, nil
		},
		setPassCoordsFunc: func(ctx context.Context, id, coordsID int64) error {
			linkedPassID = id
			linkedCoordsID = coordsID
			return nil
		},
	}
	svc := services.NewSubmissionService(store)

	err := svc.Update(context.Background(), 42, models.PassPatch{
		Coords: &models.Coords{Latitude: 32.254, Longitude: 98.541, Height: 1110},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), linkedPassID)
	assert.Equal(t, int64(99), linkedCoordsID)
}

func TestSubmissionService_Update_ImageNotFound(t *testing.T) {
	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			return &models.Pass{ID: id, Status: models.StatusNew}, nil
		},
		updatePassFieldsFunc: func(ctx context.Context, id int64, patch models.PassPatch) error {
			return nil
		},
		updateImageFunc: func(ctx context.Context, id int64, imageURL, title string) error {
			return repository.ErrImageNotFound
		},
	}
	svc := services.NewSubmissionService(store)

	err := svc.Update(context.Background(), 42, models.PassPatch{
		Images: []models.ImagePatch{{ID: 12345, ImageURL: "image/10", Title: "Гора"}},
	})
	assert.ErrorIs(t, err, services.ErrImageNotFound)
}

func TestSubmissionService_Update_ImagesInPlace(t *testing.T) {
	updated := map[int64]string{}

	store := &mockStore{
		getPassByIDFunc: func(ctx context.Context, id int64) (*models.Pass, error) {
			return &models.Pass{ID: id, Status: models.StatusNew}, nil
		},
		updatePassFieldsFunc: func(ctx context.Context, id int64, patch models.PassPatch) error {
			return nil
		},
		updateImageFunc: func(ctx context.Context, id int64, imageURL, title string) error {
			updated[id] = imageURL
			return nil
		},
	}
	svc := services.NewSubmissionService(store)

	err := svc.Update(context.Background(), 42, models.PassPatch{
		Images: []models.ImagePatch{
			{ID: 1, ImageURL: "image/23", Title: "Оползень"},
			{ID: 2, ImageURL: "image/10", Title: "Гора"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "image/23", 2: "image/10"}, updated)
}

func TestSubmissionService_ListUsers_Bounds(t *testing.T) {
	var gotSkip, gotLimit int

	store := &mockStore{
		listUsersFunc: func(ctx context.Context, skip, limit int) ([]models.User, error) {
			gotSkip, gotLimit = skip, limit
			return []models.User{}, nil
		},
	}
	svc := services.NewSubmissionService(store)

	_, err := svc.ListUsers(context.Background(), -5, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, gotSkip)
	assert.Equal(t, 100, gotLimit)
}
