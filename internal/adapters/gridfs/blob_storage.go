package gridfs_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bucketName    = "landmark_images"
	imagesPath    = "/api/v1/images/"
	progressChunk = 256 * 1024
)

// GridFSBlobStorage stores landmark images in a MongoDB GridFS bucket and serves them
// back through the service's image route.
type GridFSBlobStorage struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSBlobStorage(db *mongo.Database, publicBaseURL string) (*GridFSBlobStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo database cannot be nil")
	}
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("failed to open gridfs bucket: %w", err)
	}
	return &GridFSBlobStorage{
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// URLFor returns the public url of a stored file.
func (s *GridFSBlobStorage) URLFor(fileID string) string {
	return s.baseURL + imagesPath + fileID
}

// fileIDFromURL extracts the object id of a url produced by URLFor.
func (s *GridFSBlobStorage) fileIDFromURL(url string) (primitive.ObjectID, bool) {
	prefix := s.baseURL + imagesPath
	if !strings.HasPrefix(url, prefix) {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(url, prefix))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (s *GridFSBlobStorage) Upload(ctx context.Context, key string, img domain.ImageUpload, progress chan<- domain.UploadProgress) (*port.StoredBlob, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "GridFSBlobStorage",
		"method":    "Upload",
		"key":       key,
	})

	opts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType": img.ContentType,
		"filename":    img.Filename,
	})
	stream, err := s.bucket.OpenUploadStream(key, opts)
	if err != nil {
		logger.Error("Failed to open upload stream", err, nil)
		return nil, mongoError("open upload stream", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}

	w := &progressWriter{
		ctx:      ctx,
		w:        stream,
		progress: progress,
		report:   domain.UploadProgress{Filename: img.Filename, TotalBytes: img.Size},
	}
	written, err := io.Copy(w, img.Content)
	if err != nil {
		_ = stream.Abort()
		logger.Error("Failed to write image", err, port.Fields{"written": written})
		return nil, mongoError("write image", err)
	}
	if err := stream.Close(); err != nil {
		logger.Error("Failed to finish upload", err, nil)
		return nil, mongoError("close upload stream", err)
	}
	w.finish()

	fileID := stream.FileID.(primitive.ObjectID).Hex()
	logger.Debug("Image stored", port.Fields{"file_id": fileID, "bytes": written})
	return &port.StoredBlob{
		FileID:      fileID,
		Key:         key,
		URL:         s.URLFor(fileID),
		ContentType: img.ContentType,
		Size:        written,
	}, nil
}

func (s *GridFSBlobStorage) Delete(ctx context.Context, url string) error {
	id, ok := s.fileIDFromURL(url)
	if !ok {
		return nil
	}
	if err := s.bucket.DeleteContext(ctx, id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil
		}
		return mongoError("delete image", err)
	}
	return nil
}

// Open streams a stored image. The caller closes the reader.
func (s *GridFSBlobStorage) Open(ctx context.Context, fileID string) (io.ReadCloser, *port.StoredBlob, error) {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, domain.ErrImageNotFound
	}

	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, domain.ErrImageNotFound
		}
		return nil, nil, mongoError("open download stream", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	file := stream.GetFile()
	blob := &port.StoredBlob{
		FileID: fileID,
		Key:    file.Name,
		URL:    s.URLFor(fileID),
		Size:   file.Length,
	}
	if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
		blob.ContentType = ct
	}
	return stream, blob, nil
}

func mongoError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// progressWriter reports every progressChunk bytes and once more when the upload ends.
type progressWriter struct {
	ctx       context.Context
	w         io.Writer
	progress  chan<- domain.UploadProgress
	report    domain.UploadProgress
	sinceEmit int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.w.Write(b)
	p.report.BytesTransferred += int64(n)
	p.sinceEmit += int64(n)
	if p.sinceEmit >= progressChunk {
		p.sinceEmit = 0
		p.emit()
	}
	return n, err
}

func (p *progressWriter) finish() {
	p.report.Done = true
	if p.report.TotalBytes <= 0 {
		p.report.TotalBytes = p.report.BytesTransferred
	}
	p.emit()
}

func (p *progressWriter) emit() {
	if p.progress == nil {
		return
	}
	select {
	case p.progress <- p.report:
	case <-p.ctx.Done():
	}
}
