package usecase

import (
	"context"
	"landmark-service/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateLandmark(t *testing.T) {
	f := newCreateFixture()
	owner := domain.Identity{UserID: uuid.New()}
	created, err := f.uc.Execute(context.Background(), owner, mirForm("small"), []domain.ImageUpload{jpeg("old.jpg", 10)}, nil)
	require.NoError(t, err)
	geocoder := &fakeGeocoder{known: map[string]domain.Geolocation{mirAddress: {Lat: 53.4513, Lng: 26.4728}}}
	update := NewUpdateLandmarkUseCase(f.repo, f.blobs, geocoder, nil, f.publisher, nil)

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := update.Execute(context.Background(), domain.Identity{UserID: uuid.New()}, created.ID, mirForm("large"), nil, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown landmark", func(t *testing.T) {
		_, err := update.Execute(context.Background(), owner, uuid.New(), mirForm("large"), nil, nil)
		assert.ErrorIs(t, err, domain.ErrLandmarkNotFound)
	})

	t.Run("owner replaces fields and images", func(t *testing.T) {
		form := mirForm("large")
		form.Description = "Restored in 2010."
		updated, err := update.Execute(context.Background(), owner, created.ID, form, []domain.ImageUpload{jpeg("new.jpg", 10)}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.SizeLarge, updated.Size)
		assert.Equal(t, "Restored in 2010.", updated.Description)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, owner.UserID, updated.OwnerID)
		require.Len(t, updated.ImgURLs, 1)
		assert.Contains(t, updated.ImgURLs[0], "new.jpg")
		assert.Contains(t, f.blobs.deleted, created.ImgURLs[0])
		assert.Equal(t, 1, f.blobs.count())
		assert.Contains(t, f.publisher.types(), domain.EventLandmarkUpdated)
	})
}

// cancelAfterUpdate cancels the request context once the update is committed, like a
// client that disconnects right after the write.
type cancelAfterUpdate struct {
	*fakeLandmarkRepo
	cancel context.CancelFunc
}

func (r *cancelAfterUpdate) Update(ctx context.Context, l *domain.Landmark) error {
	err := r.fakeLandmarkRepo.Update(ctx, l)
	r.cancel()
	return err
}

func TestUpdateLandmark_RemovesReplacedImagesAfterDisconnect(t *testing.T) {
	f := newCreateFixture()
	owner := domain.Identity{UserID: uuid.New()}
	created, err := f.uc.Execute(context.Background(), owner, mirForm("small"), []domain.ImageUpload{jpeg("old.jpg", 10)}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &cancelAfterUpdate{fakeLandmarkRepo: f.repo, cancel: cancel}
	geocoder := &fakeGeocoder{known: map[string]domain.Geolocation{mirAddress: {Lat: 53.4513, Lng: 26.4728}}}
	update := NewUpdateLandmarkUseCase(repo, f.blobs, geocoder, nil, f.publisher, nil)

	_, err = update.Execute(ctx, owner, created.ID, mirForm("large"), []domain.ImageUpload{jpeg("new.jpg", 10)}, nil)
	require.NoError(t, err)

	assert.Contains(t, f.blobs.deleted, created.ImgURLs[0])
	assert.Equal(t, 1, f.blobs.count())
}

func TestUpdateLandmark_ReResolvesUnchangedAddress(t *testing.T) {
	f := newCreateFixture()
	owner := domain.Identity{UserID: uuid.New()}
	created, err := f.uc.Execute(context.Background(), owner, mirForm("small"), []domain.ImageUpload{jpeg("a.jpg", 10)}, nil)
	require.NoError(t, err)

	moved := domain.Geolocation{Lat: 53.4601, Lng: 26.4802}
	geocoder := &fakeGeocoder{known: map[string]domain.Geolocation{mirAddress: moved}}
	update := NewUpdateLandmarkUseCase(f.repo, f.blobs, geocoder, nil, f.publisher, nil)

	form := mirForm("small")
	require.Equal(t, created.Address, form.Address)
	updated, err := update.Execute(context.Background(), owner, created.ID, form, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, moved, updated.Geolocation)
	assert.Equal(t, created.ImgURLs, updated.ImgURLs)
}

func TestDeleteLandmark(t *testing.T) {
	f := newCreateFixture()
	owner := domain.Identity{UserID: uuid.New()}
	fan := domain.Identity{UserID: uuid.New()}
	created, err := f.uc.Execute(context.Background(), owner, mirForm("small"), []domain.ImageUpload{jpeg("a.jpg", 10)}, nil)
	require.NoError(t, err)

	favorites := newFakeFavorites()
	require.NoError(t, favorites.Add(context.Background(), fan.UserID, created.ID))
	del := NewDeleteLandmarkUseCase(f.repo, favorites, f.blobs, nil, f.publisher)

	assert.ErrorIs(t, del.Execute(context.Background(), fan, created.ID), domain.ErrForbidden)

	require.NoError(t, del.Execute(context.Background(), owner, created.ID))
	assert.Empty(t, f.repo.landmarks)
	assert.Zero(t, f.blobs.count())
	ids, _ := favorites.FindIDsByUser(context.Background(), fan.UserID)
	assert.Empty(t, ids)
	assert.Contains(t, f.publisher.types(), domain.EventLandmarkDeleted)

	_, err = NewGetLandmarkUseCase(f.repo).Execute(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrLandmarkNotFound)
}

func TestListUserLandmarks(t *testing.T) {
	repo := newFakeLandmarkRepo()
	owner := uuid.New()
	first := repo.seed(domain.Landmark{Name: "first", OwnerID: owner, Size: domain.SizeSmall})
	repo.seed(domain.Landmark{Name: "other", OwnerID: uuid.New(), Size: domain.SizeSmall})
	second := repo.seed(domain.Landmark{Name: "second", OwnerID: owner, Size: domain.SizeLarge})

	got, err := NewListUserLandmarksUseCase(repo).Execute(context.Background(), domain.Identity{UserID: owner})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestFindNearbyLandmarks_GeohashFallback(t *testing.T) {
	repo := newFakeLandmarkRepo()
	near := domain.Geolocation{Lat: 53.4513, Lng: 26.4728}
	nearer := domain.Geolocation{Lat: 53.4520, Lng: 26.4730}
	far := domain.Geolocation{Lat: 52.0976, Lng: 23.7341}
	repo.seed(domain.Landmark{Name: "near", Geolocation: near, Geohash: encodeGeohash(near)})
	repo.seed(domain.Landmark{Name: "nearer", Geolocation: nearer, Geohash: encodeGeohash(nearer)})
	repo.seed(domain.Landmark{Name: "far", Geolocation: far, Geohash: encodeGeohash(far)})

	got, err := NewFindNearbyLandmarksUseCase(repo, nil).Execute(context.Background(), domain.Geolocation{Lat: 53.4521, Lng: 26.4731}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "nearer", got[0].Name)
	assert.Equal(t, "near", got[1].Name)

	_, err = NewFindNearbyLandmarksUseCase(repo, nil).Execute(context.Background(), domain.Geolocation{Lat: 95}, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
