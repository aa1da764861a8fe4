package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type DeleteLandmarkUseCase struct {
	repo      port.LandmarkRepositoryPort
	favorites port.FavoritesRepositoryPort
	uploader  *imageUploader
	after     *afterWrite
}

func NewDeleteLandmarkUseCase(
	repo port.LandmarkRepositoryPort,
	favorites port.FavoritesRepositoryPort,
	blobs port.BlobStoragePort,
	index port.NearbyIndexPort,
	publisher port.EventPublisherPort,
) *DeleteLandmarkUseCase {
	return &DeleteLandmarkUseCase{
		repo:      repo,
		favorites: favorites,
		uploader:  &imageUploader{blobs: blobs},
		after:     &afterWrite{index: index, publisher: publisher},
	}
}

func (uc *DeleteLandmarkUseCase) Execute(ctx context.Context, identity domain.Identity, landmarkID uuid.UUID) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "DeleteLandmark",
		"user_id":     identity.UserID.String(),
		"landmark_id": landmarkID.String(),
	})
	ucLogger.Info("Use case started", nil)

	existing, err := uc.repo.FindByID(ctx, landmarkID)
	if err != nil {
		ucLogger.Error("Repository failed to find landmark", err, nil)
		return err
	}
	if existing == nil {
		return domain.ErrLandmarkNotFound
	}
	if !existing.IsOwner(identity.UserID) {
		ucLogger.Warn("Delete refused: caller is not the owner", nil)
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, landmarkID); err != nil {
		ucLogger.Error("Repository failed to delete landmark", err, nil)
		return err
	}

	cleanupCtx := context.WithoutCancel(ctx)
	if err := uc.favorites.RemoveLandmark(cleanupCtx, landmarkID); err != nil {
		ucLogger.Warn("Failed to remove favourite links", port.Fields{"error": err.Error()})
	}
	uc.uploader.deleteAll(cleanupCtx, existing.ImgURLs)
	uc.after.unindexed(ctx, landmarkID)
	uc.after.publish(ctx, domain.LandmarkDeleted{
		LandmarkID: landmarkID,
		OwnerID:    existing.OwnerID,
		DeletedAt:  time.Now().UTC(),
	})

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
