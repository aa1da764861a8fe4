package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
)

type CreateLandmarkUseCase struct {
	repo     port.LandmarkRepositoryPort
	uploader *imageUploader
	locator  *locator
	after    *afterWrite
}

// NewCreateLandmarkUseCase wires the use case. geocoder, index and notifier may be nil.
func NewCreateLandmarkUseCase(
	repo port.LandmarkRepositoryPort,
	blobs port.BlobStoragePort,
	geocoder port.GeocoderPort,
	index port.NearbyIndexPort,
	publisher port.EventPublisherPort,
	notifier port.UploadNotifierPort,
) *CreateLandmarkUseCase {
	return &CreateLandmarkUseCase{
		repo:     repo,
		uploader: &imageUploader{blobs: blobs, notifier: notifier},
		locator:  &locator{geocoder: geocoder},
		after:    &afterWrite{index: index, publisher: publisher},
	}
}

// Execute validates the form, uploads the images and stores the new landmark.
// progress, when not nil, receives upload progress and must be drained by the caller.
func (uc *CreateLandmarkUseCase) Execute(
	ctx context.Context,
	identity domain.Identity,
	form domain.LandmarkForm,
	images []domain.ImageUpload,
	progress chan<- domain.UploadProgress,
) (*domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateLandmark",
		"user_id":  identity.UserID.String(),
	})
	ucLogger.Info("Use case started", nil)

	if identity.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		ucLogger.Warn("Form validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	if err := domain.ValidateImages(images); err != nil {
		ucLogger.Warn("Image validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	geo, err := uc.locator.resolve(ctx, form)
	if err != nil {
		ucLogger.Warn("Failed to resolve geolocation", port.Fields{"address": form.Address, "error": err.Error()})
		return nil, err
	}

	urls, err := uc.uploader.uploadAll(ctx, identity.UserID, images, progress)
	if err != nil {
		return nil, err
	}

	landmark := &domain.Landmark{
		ID:          uuid.New(),
		Name:        form.Name,
		Type:        form.Type,
		Size:        domain.Size(form.Size),
		Place:       form.Place,
		Address:     form.Address,
		Description: form.Description,
		Geolocation: geo,
		Geohash:     encodeGeohash(geo),
		ImgURLs:     urls,
		Likes:       []uuid.UUID{},
		OwnerID:     identity.UserID,
	}

	if err := uc.repo.Create(ctx, landmark); err != nil {
		ucLogger.Error("Repository failed to create landmark", err, nil)
		uc.uploader.deleteAll(context.WithoutCancel(ctx), urls)
		return nil, err
	}

	uc.after.indexed(ctx, landmark)
	uc.after.publish(ctx, domain.NewLandmarkCreated(landmark))

	ucLogger.Info("Use case finished successfully", port.Fields{"landmark_id": landmark.ID.String()})
	return landmark, nil
}
