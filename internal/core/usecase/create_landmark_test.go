package usecase

import (
	"context"
	"landmark-service/internal/core/domain"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mirAddress = "Krasnoarmeyskaya 2, Mir"

type createFixture struct {
	repo      *fakeLandmarkRepo
	blobs     *fakeBlobs
	publisher *fakePublisher
	notifier  *fakeNotifier
	uc        *CreateLandmarkUseCase
}

func newCreateFixture() *createFixture {
	f := &createFixture{
		repo:      newFakeLandmarkRepo(),
		blobs:     newFakeBlobs(),
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	geocoder := &fakeGeocoder{known: map[string]domain.Geolocation{mirAddress: {Lat: 53.4513, Lng: 26.4728}}}
	f.uc = NewCreateLandmarkUseCase(f.repo, f.blobs, geocoder, nil, f.publisher, f.notifier)
	return f
}

func mirForm(size string) domain.LandmarkForm {
	return domain.LandmarkForm{
		Name:        "Mir Castle",
		Type:        "Castle",
		Size:        size,
		Place:       "Mir, Belarus",
		Address:     mirAddress,
		Description: "A 16th century castle complex.",
	}
}

func TestCreateLandmark_AppearsFirstInCategory(t *testing.T) {
	f := newCreateFixture()
	seedLandmarks(f.repo, 10, domain.SizeLarge)
	owner := domain.Identity{UserID: uuid.New(), Email: "owner@example.com"}

	created, err := f.uc.Execute(context.Background(), owner, mirForm("large"),
		[]domain.ImageUpload{jpeg("front.jpg", 1024), jpeg("tower.jpg", 2048)}, nil)
	require.NoError(t, err)

	assert.Equal(t, owner.UserID, created.OwnerID)
	assert.Empty(t, created.Likes)
	assert.Len(t, created.ImgURLs, 2)
	assert.Contains(t, created.ImgURLs[0], "front.jpg")
	assert.Contains(t, created.ImgURLs[0], owner.UserID.String())
	assert.NotEmpty(t, created.Geohash)
	assert.InDelta(t, 53.4513, created.Geolocation.Lat, 1e-9)
	assert.False(t, created.CreatedAt.IsZero())

	large := domain.SizeLarge
	session := NewListingSession(NewListLandmarksUseCase(f.repo), &large)
	_, err = session.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, session.Records())
	assert.Equal(t, created.ID, session.Records()[0].ID)

	assert.Equal(t, []string{domain.EventLandmarkCreated}, f.publisher.types())
}

func TestCreateLandmark_ReportsProgress(t *testing.T) {
	f := newCreateFixture()
	owner := domain.Identity{UserID: uuid.New()}

	progress := make(chan domain.UploadProgress)
	var (
		wg       sync.WaitGroup
		received []domain.UploadProgress
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := range progress {
			received = append(received, p)
		}
	}()

	_, err := f.uc.Execute(context.Background(), owner, mirForm("small"),
		[]domain.ImageUpload{jpeg("a.jpg", 10), jpeg("b.jpg", 20)}, progress)
	close(progress)
	wg.Wait()

	require.NoError(t, err)
	assert.Len(t, received, 2)
	assert.Len(t, f.notifier.received, 2)
	for _, p := range received {
		assert.True(t, p.Done)
		assert.InDelta(t, 100, p.Percent(), 1e-9)
	}
}

func TestCreateLandmark_Rejections(t *testing.T) {
	owner := domain.Identity{UserID: uuid.New()}

	tests := []struct {
		name    string
		form    domain.LandmarkForm
		images  []domain.ImageUpload
		wantErr error
	}{
		{
			name:    "invalid form",
			form:    func() domain.LandmarkForm { f := mirForm("small"); f.Name = "Mir"; return f }(),
			images:  []domain.ImageUpload{jpeg("a.jpg", 10)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "no images",
			form:    mirForm("small"),
			wantErr: domain.ErrNoImages,
		},
		{
			name: "seven images",
			form: mirForm("small"),
			images: []domain.ImageUpload{
				jpeg("1.jpg", 1), jpeg("2.jpg", 1), jpeg("3.jpg", 1), jpeg("4.jpg", 1),
				jpeg("5.jpg", 1), jpeg("6.jpg", 1), jpeg("7.jpg", 1),
			},
			wantErr: domain.ErrTooManyImages,
		},
		{
			name:    "image over 5 MB",
			form:    mirForm("small"),
			images:  []domain.ImageUpload{jpeg("big.jpg", domain.MaxImageBytes+1)},
			wantErr: domain.ErrImageTooLarge,
		},
		{
			name:    "unresolvable address",
			form:    func() domain.LandmarkForm { f := mirForm("small"); f.Address = "Nowhere 0"; return f }(),
			images:  []domain.ImageUpload{jpeg("a.jpg", 10)},
			wantErr: domain.ErrAddressNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCreateFixture()
			_, err := f.uc.Execute(context.Background(), owner, tt.form, tt.images, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.landmarks)
			assert.Zero(t, f.blobs.count())
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestCreateLandmark_FailedUploadRemovesStoredBlobs(t *testing.T) {
	f := newCreateFixture()
	f.blobs.failOn = "broken.jpg"

	_, err := f.uc.Execute(context.Background(), domain.Identity{UserID: uuid.New()}, mirForm("small"),
		[]domain.ImageUpload{jpeg("ok.jpg", 10), jpeg("broken.jpg", 10), jpeg("ok2.jpg", 10)}, nil)

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Zero(t, f.blobs.count())
	assert.Empty(t, f.repo.landmarks)
}

func TestCreateLandmark_ManualCoordinatesWithoutGeocoder(t *testing.T) {
	repo := newFakeLandmarkRepo()
	uc := NewCreateLandmarkUseCase(repo, newFakeBlobs(), nil, nil, &fakePublisher{}, nil)
	owner := domain.Identity{UserID: uuid.New()}

	_, err := uc.Execute(context.Background(), owner, mirForm("small"), []domain.ImageUpload{jpeg("a.jpg", 10)}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	form := mirForm("small")
	lat, lng := 53.45, 26.47
	form.Latitude, form.Longitude = &lat, &lng
	created, err := uc.Execute(context.Background(), owner, form, []domain.ImageUpload{jpeg("a.jpg", 10)}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Geolocation{Lat: lat, Lng: lng}, created.Geolocation)
}

func TestCreateLandmark_Anonymous(t *testing.T) {
	f := newCreateFixture()
	_, err := f.uc.Execute(context.Background(), domain.Identity{}, mirForm("small"), []domain.ImageUpload{jpeg("a.jpg", 10)}, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
