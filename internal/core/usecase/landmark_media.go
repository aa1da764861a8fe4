package usecase

import (
	"context"
	"errors"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/sync/errgroup"
)

const geohashPrecision = 9

// imageUploader writes the images of one landmark form to the blob store.
type imageUploader struct {
	blobs    port.BlobStoragePort
	notifier port.UploadNotifierPort // may be nil
}

// uploadAll uploads every image concurrently and returns the public urls in input order.
// If any upload fails the blobs already written are deleted.
func (u *imageUploader) uploadAll(ctx context.Context, ownerID uuid.UUID, images []domain.ImageUpload, progress chan<- domain.UploadProgress) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ImageUploader",
		"owner_id":  ownerID.String(),
		"images":    len(images),
	})

	relay := make(chan domain.UploadProgress, len(images)*4)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		for p := range relay {
			if u.notifier != nil {
				u.notifier.NotifyProgress(ownerID, p)
			}
			if progress != nil {
				select {
				case progress <- p:
				case <-ctx.Done():
				}
			}
		}
	}()

	urls := make([]string, len(images))
	var (
		mu     sync.Mutex
		stored []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		g.Go(func() error {
			key := fmt.Sprintf("%s-%s-%s", ownerID, img.Filename, uuid.NewString())
			blob, err := u.blobs.Upload(gctx, key, img, relay)
			if err != nil {
				return fmt.Errorf("upload %s: %w", img.Filename, err)
			}
			mu.Lock()
			stored = append(stored, blob.URL)
			mu.Unlock()
			urls[i] = blob.URL
			return nil
		})
	}
	err := g.Wait()
	close(relay)
	<-relayDone

	if err != nil {
		logger.Error("Image upload failed, removing uploaded blobs", err, port.Fields{"uploaded": len(stored)})
		u.deleteAll(context.WithoutCancel(ctx), stored)
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	logger.Info("Images uploaded", nil)
	return urls, nil
}

// deleteAll removes blobs best-effort; failures are only logged.
func (u *imageUploader) deleteAll(ctx context.Context, urls []string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "ImageUploader"})
	for _, url := range urls {
		if err := u.blobs.Delete(ctx, url); err != nil {
			logger.Warn("Failed to delete blob", port.Fields{"url": url, "error": err.Error()})
		}
	}
}

// locator resolves the coordinates of a landmark form.
type locator struct {
	geocoder port.GeocoderPort // nil when geocoding is disabled
}

func (l *locator) resolve(ctx context.Context, form domain.LandmarkForm) (domain.Geolocation, error) {
	if l.geocoder != nil {
		return l.geocoder.Geocode(ctx, form.Address)
	}
	geo, ok := form.ManualGeolocation()
	if !ok {
		return domain.Geolocation{}, fmt.Errorf("%w: latitude and longitude are required", domain.ErrValidation)
	}
	return geo, nil
}

func encodeGeohash(geo domain.Geolocation) string {
	return geohash.EncodeWithPrecision(geo.Lat, geo.Lng, geohashPrecision)
}

// afterWrite keeps the search index and subscribers in step with a stored landmark.
// Neither failure undoes the write.
type afterWrite struct {
	index     port.NearbyIndexPort // may be nil
	publisher port.EventPublisherPort
}

func (a *afterWrite) indexed(ctx context.Context, l *domain.Landmark) {
	if a.index == nil {
		return
	}
	if err := a.index.Index(ctx, l); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to index landmark", port.Fields{
			"landmark_id": l.ID.String(),
			"error":       err.Error(),
		})
	}
}

func (a *afterWrite) unindexed(ctx context.Context, id uuid.UUID) {
	if a.index == nil {
		return
	}
	if err := a.index.Remove(ctx, id); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to remove landmark from index", port.Fields{
			"landmark_id": id.String(),
			"error":       err.Error(),
		})
	}
}

func (a *afterWrite) publish(ctx context.Context, event domain.Event) {
	if err := a.publisher.Publish(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish event", port.Fields{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}
