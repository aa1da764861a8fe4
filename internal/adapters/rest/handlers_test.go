package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"landmark-service/internal/core/domain"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authed(extra map[string]string) map[string]string {
	h := map[string]string{"Authorization": "Bearer good"}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func sampleLandmark(name string, created time.Time) domain.Landmark {
	return domain.Landmark{
		ID:        uuid.New(),
		Name:      name,
		Type:      "castle",
		Size:      domain.SizeLarge,
		ImgURLs:   []string{"http://img/1"},
		Likes:     []uuid.UUID{uuid.New()},
		OwnerID:   uuid.New(),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name too short", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrInvalidCursor, http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrLandmarkNotFound, http.StatusNotFound},
		{domain.ErrEmailInUse, http.StatusConflict},
		{domain.ErrOwnAction, http.StatusUnprocessableEntity},
		{domain.ErrAddressNotFound, http.StatusUnprocessableEntity},
		{domain.ErrTooManyImages, http.StatusUnprocessableEntity},
		{fmt.Errorf("upload: %w", domain.ErrUploadFailed), http.StatusServiceUnavailable},
		{fmt.Errorf("find: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForError(tt.err), tt.err.Error())
	}
}

func TestListLandmarks_PassesPageRequest(t *testing.T) {
	api := newTestAPI()
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	last := sampleLandmark("Mir Castle", created)
	cursor := domain.PageCursor{CreatedAt: created.Add(time.Hour), ID: uuid.New()}

	var got domain.PageRequest
	api.landmarks.List = listFn(func(_ context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
		got = req
		return domain.NewLandmarkPage([]domain.Landmark{last}, 1), nil
	})

	target := "/api/v1/landmarks?size=large&limit=1&cursor=" + url.QueryEscape(cursor.Encode())
	rec := do(t, api.router(t), http.MethodGet, target, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NotNil(t, got.Size)
	assert.Equal(t, domain.SizeLarge, *got.Size)
	assert.Equal(t, 1, got.Limit)
	require.NotNil(t, got.Cursor)
	assert.Equal(t, cursor.ID, got.Cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(got.Cursor.CreatedAt))

	var resp LandmarkPageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Landmarks, 1)
	assert.Equal(t, "Mir Castle", resp.Landmarks[0].Name)
	assert.Equal(t, 1, resp.Landmarks[0].LikesCount)
	assert.True(t, resp.HasMore)
	next, err := domain.DecodeCursor(resp.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, last.ID, next.ID)
}

func TestListLandmarks_BadQuery(t *testing.T) {
	api := newTestAPI()
	router := api.router(t)

	for _, target := range []string{
		"/api/v1/landmarks?size=medium",
		"/api/v1/landmarks?cursor=%%%",
		"/api/v1/landmarks?size=small&cursor=%zz",
		"/api/v1/landmarks?limit=-1",
	} {
		rec := do(t, router, http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetLandmark(t *testing.T) {
	api := newTestAPI()
	l := sampleLandmark("Nesvizh Castle", time.Now())
	api.landmarks.Get = getFn(func(_ context.Context, id uuid.UUID) (*domain.Landmark, error) {
		if id != l.ID {
			return nil, domain.ErrLandmarkNotFound
		}
		return &l, nil
	})
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/api/v1/landmarks/"+l.ID.String(), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/landmarks/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.ErrLandmarkNotFound.Error(), errorBody(t, rec))

	rec = do(t, router, http.MethodGet, "/api/v1/landmarks/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindNearby_ValidatesCoordinates(t *testing.T) {
	api := newTestAPI()
	var gotLimit int
	api.landmarks.Nearby = nearbyFn(func(_ context.Context, p domain.Geolocation, limit int) ([]domain.Landmark, error) {
		gotLimit = limit
		return []domain.Landmark{}, nil
	})
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/api/v1/landmarks/nearby?lat=53.9&lng=27.5&limit=500", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MaxPageSize, gotLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/landmarks/nearby?lat=95&lng=27.5", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/landmarks/nearby?lat=53.9&lng=27.5&limit=%zz", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.MaxPageSize, gotLimit, "the rejected request must not reach the use case")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	router := newTestAPI().router(t)
	id := uuid.NewString()

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/landmarks"},
		{http.MethodPut, "/api/v1/landmarks/" + id},
		{http.MethodDelete, "/api/v1/landmarks/" + id},
		{http.MethodPut, "/api/v1/landmarks/" + id + "/like"},
		{http.MethodPut, "/api/v1/landmarks/" + id + "/favourite"},
		{http.MethodGet, "/api/v1/favourites"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPatch, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/profile/landmarks"},
		{http.MethodGet, "/api/v1/uploads/subscribe"},
	} {
		rec := do(t, router, route.method, route.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.method+" "+route.path)

		rec = do(t, router, route.method, route.path, nil, map[string]string{"Authorization": "Bearer forged"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.method+" "+route.path)
	}
}

func TestToggleLike(t *testing.T) {
	api := newTestAPI()
	own := uuid.New()
	api.social.like = func(_ context.Context, identity domain.Identity, id uuid.UUID) (*domain.LikeState, error) {
		assert.Equal(t, testIdentity, identity)
		if id == own {
			return nil, domain.ErrOwnAction
		}
		return &domain.LikeState{Liked: true, Count: 3}, nil
	}
	router := api.router(t)

	rec := do(t, router, http.MethodPut, "/api/v1/landmarks/"+uuid.NewString()+"/like", nil, authed(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked":true,"likesCount":3}`, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/v1/landmarks/"+own.String()+"/like", nil, authed(nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, domain.ErrOwnAction.Error(), errorBody(t, rec))
}

func TestToggleFavouriteAndList(t *testing.T) {
	api := newTestAPI()
	l := sampleLandmark("Brest Fortress", time.Now())
	api.social.favourite = func(context.Context, domain.Identity, uuid.UUID) (bool, error) { return true, nil }
	api.social.favourites = func(context.Context, domain.Identity) ([]domain.Landmark, error) {
		return []domain.Landmark{l}, nil
	}
	router := api.router(t)

	rec := do(t, router, http.MethodPut, "/api/v1/landmarks/"+l.ID.String()+"/favourite", nil, authed(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"favourite":true}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/favourites", nil, authed(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []LandmarkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, l.ID, resp[0].ID)
}

var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, []byte("jpeg-body")...)
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), []byte("png-body")...)
)

func multipartLandmark(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, name))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateLandmark_Multipart(t *testing.T) {
	api := newTestAPI()
	var gotForm domain.LandmarkForm
	var gotImage []byte
	var gotImageMeta domain.ImageUpload
	api.landmarks.Create = createFn(func(_ context.Context, identity domain.Identity, form domain.LandmarkForm, images []domain.ImageUpload) (*domain.Landmark, error) {
		gotForm = form
		require.Len(t, images, 1)
		gotImageMeta = images[0]
		gotImage, _ = io.ReadAll(images[0].Content)
		l := sampleLandmark(form.Name, time.Now())
		l.OwnerID = identity.UserID
		return &l, nil
	})

	body, contentType := multipartLandmark(t, map[string]string{
		"name": "Mir Castle", "type": "castle", "size": "large", "place": "Mir",
		"address": "Krasnoarmeyskaya 2, Mir", "description": "16th century castle",
		"lat": "53.45", "lng": "26.47",
	}, map[string][]byte{"front.jpg": jpegBytes})

	rec := do(t, api.router(t), http.MethodPost, "/api/v1/landmarks", body, authed(map[string]string{"Content-Type": contentType}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "Mir Castle", gotForm.Name)
	assert.Equal(t, "large", gotForm.Size)
	require.NotNil(t, gotForm.Latitude)
	assert.InDelta(t, 53.45, *gotForm.Latitude, 1e-9)
	assert.Equal(t, "front.jpg", gotImageMeta.Filename)
	assert.Equal(t, "image/jpeg", gotImageMeta.ContentType)
	assert.Equal(t, int64(len(jpegBytes)), gotImageMeta.Size)
	assert.Equal(t, jpegBytes, gotImage)

	var resp LandmarkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testIdentity.UserID, resp.OwnerID)
}

func TestCreateLandmark_ContentTypeIsSniffed(t *testing.T) {
	api := newTestAPI()
	called := false
	api.landmarks.Create = createFn(func(context.Context, domain.Identity, domain.LandmarkForm, []domain.ImageUpload) (*domain.Landmark, error) {
		called = true
		return nil, errors.New("must not be reached")
	})

	// declared as image/jpeg by the client, but the bytes are HTML
	body, contentType := multipartLandmark(t, map[string]string{"name": "Mir Castle"},
		map[string][]byte{"front.jpg": []byte("<html><body>not an image</body></html>")})

	rec := do(t, api.router(t), http.MethodPost, "/api/v1/landmarks", body, authed(map[string]string{"Content-Type": contentType}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorBody(t, rec), domain.ErrUnsupportedImage.Error())
	assert.False(t, called)
}

func TestCreateLandmark_PNGDeclaredAsJPEG(t *testing.T) {
	api := newTestAPI()
	var got domain.ImageUpload
	var content []byte
	api.landmarks.Create = createFn(func(_ context.Context, identity domain.Identity, form domain.LandmarkForm, images []domain.ImageUpload) (*domain.Landmark, error) {
		require.Len(t, images, 1)
		got = images[0]
		content, _ = io.ReadAll(images[0].Content)
		l := sampleLandmark(form.Name, time.Now())
		return &l, nil
	})

	body, contentType := multipartLandmark(t, map[string]string{"name": "Mir Castle"}, map[string][]byte{"front.jpg": pngBytes})

	rec := do(t, api.router(t), http.MethodPost, "/api/v1/landmarks", body, authed(map[string]string{"Content-Type": contentType}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, pngBytes, content)
}

func TestCreateLandmark_BadCoordinate(t *testing.T) {
	api := newTestAPI()
	body, contentType := multipartLandmark(t, map[string]string{"name": "Mir Castle", "lat": "north"}, nil)

	rec := do(t, api.router(t), http.MethodPost, "/api/v1/landmarks", body, authed(map[string]string{"Content-Type": contentType}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateLandmark_Forbidden(t *testing.T) {
	api := newTestAPI()
	api.landmarks.Update = updateFn(func(context.Context, domain.Identity, uuid.UUID, domain.LandmarkForm, []domain.ImageUpload) (*domain.Landmark, error) {
		return nil, domain.ErrForbidden
	})
	body, contentType := multipartLandmark(t, map[string]string{"name": "Mir Castle"}, nil)

	rec := do(t, api.router(t), http.MethodPut, "/api/v1/landmarks/"+uuid.NewString(), body, authed(map[string]string{"Content-Type": contentType}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteLandmark(t *testing.T) {
	api := newTestAPI()
	api.landmarks.Delete = identityIDFn(func(context.Context, domain.Identity, uuid.UUID) error { return nil })

	rec := do(t, api.router(t), http.MethodDelete, "/api/v1/landmarks/"+uuid.NewString(), nil, authed(nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	api := newTestAPI()
	api.landmarks.Home = homeFn(func(context.Context) (*domain.HomeLandmarks, error) {
		return nil, errors.New("pq: relation landmarks does not exist")
	})

	rec := do(t, api.router(t), http.MethodGet, "/api/v1/landmarks/home", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorBody(t, rec))
}

func TestSignUp(t *testing.T) {
	api := newTestAPI()
	api.auth.Register = registerFn(func(_ context.Context, form domain.SignUpForm) (*domain.User, string, error) {
		if form.Email == "taken@example.com" {
			return nil, "", domain.ErrEmailInUse
		}
		return &domain.User{ID: testIdentity.UserID, Role: domain.RoleUser}, "token", nil
	})
	router := api.router(t)

	rec := do(t, router, http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"username":"ann","email":"ann@example.com","password":"secret1"}`), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"token":"token","userId":"11111111-1111-1111-1111-111111111111","role":"user"}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/auth/sign-up",
		strings.NewReader(`{"username":"ann","email":"taken@example.com","password":"secret1"}`), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/sign-up", strings.NewReader(`{`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordReset(t *testing.T) {
	api := newTestAPI()
	var gotToken string
	api.auth.RequestReset = requestResetFn(func(context.Context, string) error { return nil })
	api.auth.ResetPassword = resetFn(func(_ context.Context, token string, form domain.PasswordForm) error {
		gotToken = token
		return nil
	})
	router := api.router(t)

	rec := do(t, router, http.MethodPost, "/api/v1/auth/password-reset", strings.NewReader(`{"email":"nobody@example.com"}`), nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/password-reset/confirm", strings.NewReader(`{"token":"reset-1","password":"newpass"}`), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "reset-1", gotToken)
}

func TestOAuthFlow(t *testing.T) {
	api := newTestAPI()
	api.auth.OAuth = &fakeOAuth{user: &domain.User{ID: testIdentity.UserID, Role: domain.RoleUser}}
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/api/v1/auth/oauth/google/login", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	var state string
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Contains(t, rec.Header().Get("Location"), "state="+state)

	cookie := oauthStateCookie + "=" + state
	rec = do(t, router, http.MethodGet, "/api/v1/auth/oauth/google/callback?state=other&code=good-code", nil, map[string]string{"Cookie": cookie})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/oauth/google/callback?state="+state+"&code=good-code", nil, map[string]string{"Cookie": cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"oauth-token"`)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/oauth/google/callback?state="+state+"&code=bad", nil, map[string]string{"Cookie": cookie})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOAuthNotConfigured(t *testing.T) {
	rec := do(t, newTestAPI().router(t), http.MethodGet, "/api/v1/auth/oauth/google/login", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	api := newTestAPI()
	user := &domain.User{ID: testIdentity.UserID, Username: "ann", Email: "ann@example.com"}
	api.auth.GetProfile = profileFn(func(context.Context, domain.Identity) (*domain.User, error) { return user, nil })
	api.auth.UpdateProfile = updateProfileFn(func(_ context.Context, _ domain.Identity, form domain.ProfileForm) (*domain.User, error) {
		updated := *user
		updated.Username = form.Username
		return &updated, nil
	})
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/api/v1/profile", nil, authed(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"favourites":[]`)

	rec = do(t, router, http.MethodPatch, "/api/v1/profile", strings.NewReader(`{"username":"annie"}`), authed(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"annie"`)
}

func TestGetImage(t *testing.T) {
	api := newTestAPI()
	api.blobs.files["abc"] = []byte("png-bytes")
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/api/v1/images/abc", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/images/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI()
	router := api.router(t)

	rec := do(t, router, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `landmark_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestTraceIDIsEchoed(t *testing.T) {
	traceID := uuid.NewString()
	rec := do(t, newTestAPI().router(t), http.MethodGet, "/healthz", nil, map[string]string{"X-Trace-ID": traceID})
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))
}
