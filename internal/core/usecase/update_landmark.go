package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
)

type UpdateLandmarkUseCase struct {
	repo     port.LandmarkRepositoryPort
	uploader *imageUploader
	locator  *locator
	after    *afterWrite
}

func NewUpdateLandmarkUseCase(
	repo port.LandmarkRepositoryPort,
	blobs port.BlobStoragePort,
	geocoder port.GeocoderPort,
	index port.NearbyIndexPort,
	publisher port.EventPublisherPort,
	notifier port.UploadNotifierPort,
) *UpdateLandmarkUseCase {
	return &UpdateLandmarkUseCase{
		repo:     repo,
		uploader: &imageUploader{blobs: blobs, notifier: notifier},
		locator:  &locator{geocoder: geocoder},
		after:    &afterWrite{index: index, publisher: publisher},
	}
}

// Execute edits a landmark owned by the caller. Empty images keep the current ones;
// otherwise the new set replaces them and the old blobs are removed after the update.
func (uc *UpdateLandmarkUseCase) Execute(
	ctx context.Context,
	identity domain.Identity,
	landmarkID uuid.UUID,
	form domain.LandmarkForm,
	images []domain.ImageUpload,
	progress chan<- domain.UploadProgress,
) (*domain.Landmark, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "UpdateLandmark",
		"user_id":     identity.UserID.String(),
		"landmark_id": landmarkID.String(),
	})
	ucLogger.Info("Use case started", nil)

	existing, err := uc.repo.FindByID(ctx, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to find landmark", err, nil)
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrLandmarkNotFound
	}
	if !existing.IsOwner(identity.UserID) {
		ucLogger.Warn("Update refused: caller is not the owner", nil)
		return nil, domain.ErrForbidden
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		ucLogger.Warn("Form validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}
	if len(images) > 0 {
		if err := domain.ValidateImages(images); err != nil {
			ucLogger.Warn("Image validation failed", port.Fields{"error": err.Error()})
			return nil, err
		}
	}

	geo, err := uc.locator.resolve(ctx, form)
	if err != nil {
		ucLogger.Warn("Failed to resolve geolocation", port.Fields{"address": form.Address, "error": err.Error()})
		return nil, err
	}

	updated := *existing
	updated.Name = form.Name
	updated.Type = form.Type
	updated.Size = domain.Size(form.Size)
	updated.Place = form.Place
	updated.Address = form.Address
	updated.Description = form.Description
	updated.Geolocation = geo
	updated.Geohash = encodeGeohash(geo)

	var replaced []string
	if len(images) > 0 {
		urls, err := uc.uploader.uploadAll(ctx, identity.UserID, images, progress)
		if err != nil {
			return nil, err
		}
		replaced = existing.ImgURLs
		updated.ImgURLs = urls
	}

	if err := uc.repo.Update(ctx, &updated); err != nil {
		ucLogger.Error("Repository failed to update landmark", err, nil)
		if len(images) > 0 {
			uc.uploader.deleteAll(context.WithoutCancel(ctx), updated.ImgURLs)
		}
		return nil, err
	}
	uc.uploader.deleteAll(context.WithoutCancel(ctx), replaced)

	uc.after.indexed(ctx, &updated)
	uc.after.publish(ctx, domain.NewLandmarkUpdated(&updated))

	ucLogger.Info("Use case finished successfully", nil)
	return &updated, nil
}
