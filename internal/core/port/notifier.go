package port

import (
	"landmark-service/internal/core/domain"

	"github.com/google/uuid"
)

// UploadNotifierPort pushes upload progress to the user's open streams.
type UploadNotifierPort interface {
	NotifyProgress(userID uuid.UUID, progress domain.UploadProgress)
}
