package rest

import (
	"errors"
	"fmt"
	"io"
	"landmark-service/internal/core/domain"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

const (
	multipartMemory = 8 << 20
	maxLandmarkBody = domain.MaxImages*domain.MaxImageBytes + 1<<20
	imagesField     = "images"
)

// parseLandmarkMultipart reads the landmark form fields and the attached images.
// The returned cleanup closes the image readers and removes temporary files.
func parseLandmarkMultipart(w http.ResponseWriter, r *http.Request) (domain.LandmarkForm, []domain.ImageUpload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxLandmarkBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return domain.LandmarkForm{}, nil, noop, fmt.Errorf("%w: invalid multipart body: %v", domain.ErrValidation, err)
	}

	removeTemp := func() { _ = r.MultipartForm.RemoveAll() }

	form := domain.LandmarkForm{
		Name:        r.FormValue("name"),
		Type:        r.FormValue("type"),
		Size:        r.FormValue("size"),
		Place:       r.FormValue("place"),
		Address:     r.FormValue("address"),
		Description: r.FormValue("description"),
	}
	var err error
	if form.Latitude, err = optionalFloat(r.FormValue("lat")); err != nil {
		return form, nil, removeTemp, fmt.Errorf("%w: lat: %v", domain.ErrValidation, err)
	}
	if form.Longitude, err = optionalFloat(r.FormValue("lng")); err != nil {
		return form, nil, removeTemp, fmt.Errorf("%w: lng: %v", domain.ErrValidation, err)
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		removeTemp()
	}

	headers := r.MultipartForm.File[imagesField]
	images := make([]domain.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return form, nil, noop, fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		contentType, err := sniffContentType(f)
		if err != nil {
			cleanup()
			return form, nil, noop, fmt.Errorf("read uploaded file %s: %w", fh.Filename, err)
		}
		if !domain.IsAllowedImageType(contentType) {
			cleanup()
			return form, nil, noop, fmt.Errorf("%w: %s has type %q", domain.ErrUnsupportedImage, fh.Filename, contentType)
		}
		images = append(images, domain.ImageUpload{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Content:     f,
		})
	}
	return form, images, cleanup, nil
}

// sniffContentType detects the type from the first 512 bytes and rewinds f.
// The client supplied Content-Type header is ignored.
func sniffContentType(f multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
