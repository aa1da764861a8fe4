package domain

import (
	"fmt"
	"io"
)

const (
	MinImages     = 1
	MaxImages     = 6
	MaxImageBytes = 5 * 1024 * 1024
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// IsAllowedImageType reports whether contentType is an accepted image format.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// ImageUpload is one file of a landmark form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadProgress is emitted while an image is being written to the blob store.
type UploadProgress struct {
	Filename         string
	BytesTransferred int64
	TotalBytes       int64
	Done             bool
}

// Percent returns the completed share in the range 0..100.
func (p UploadProgress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesTransferred) / float64(p.TotalBytes) * 100
}

// ValidateImages checks the image count, size and type limits.
func ValidateImages(images []ImageUpload) error {
	if len(images) < MinImages {
		return ErrNoImages
	}
	if len(images) > MaxImages {
		return fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyImages, len(images), MaxImages)
	}
	for _, img := range images {
		if img.Size > MaxImageBytes {
			return fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, img.Filename, img.Size)
		}
		if !IsAllowedImageType(img.ContentType) {
			return fmt.Errorf("%w: %s has type %q", ErrUnsupportedImage, img.Filename, img.ContentType)
		}
	}
	return nil
}
