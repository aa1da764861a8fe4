package rest

import (
	"bytes"
	"context"
	"io"
	"landmark-service/internal/adapters/notifier"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"net/http"
	"testing"

	logger_adapter "landmark-service/internal/adapters/logger"

	"github.com/google/uuid"
)

type listFn func(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error)

func (f listFn) Execute(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	return f(ctx, req)
}

type homeFn func(ctx context.Context) (*domain.HomeLandmarks, error)

func (f homeFn) Execute(ctx context.Context) (*domain.HomeLandmarks, error) { return f(ctx) }

type getFn func(ctx context.Context, id uuid.UUID) (*domain.Landmark, error)

func (f getFn) Execute(ctx context.Context, id uuid.UUID) (*domain.Landmark, error) {
	return f(ctx, id)
}

type nearbyFn func(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error)

func (f nearbyFn) Execute(ctx context.Context, point domain.Geolocation, limit int) ([]domain.Landmark, error) {
	return f(ctx, point, limit)
}

type createFn func(ctx context.Context, identity domain.Identity, form domain.LandmarkForm, images []domain.ImageUpload) (*domain.Landmark, error)

func (f createFn) Execute(ctx context.Context, identity domain.Identity, form domain.LandmarkForm, images []domain.ImageUpload, progress chan<- domain.UploadProgress) (*domain.Landmark, error) {
	return f(ctx, identity, form, images)
}

type updateFn func(ctx context.Context, identity domain.Identity, id uuid.UUID, form domain.LandmarkForm, images []domain.ImageUpload) (*domain.Landmark, error)

func (f updateFn) Execute(ctx context.Context, identity domain.Identity, id uuid.UUID, form domain.LandmarkForm, images []domain.ImageUpload, progress chan<- domain.UploadProgress) (*domain.Landmark, error) {
	return f(ctx, identity, id, form, images)
}

type identityIDFn func(ctx context.Context, identity domain.Identity, id uuid.UUID) error

func (f identityIDFn) Execute(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	return f(ctx, identity, id)
}

type identityListFn func(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error)

func (f identityListFn) Execute(ctx context.Context, identity domain.Identity) ([]domain.Landmark, error) {
	return f(ctx, identity)
}

type likeFn func(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.LikeState, error)

func (f likeFn) Execute(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.LikeState, error) {
	return f(ctx, identity, id)
}

type favouriteFn func(ctx context.Context, identity domain.Identity, id uuid.UUID) (bool, error)

func (f favouriteFn) Execute(ctx context.Context, identity domain.Identity, id uuid.UUID) (bool, error) {
	return f(ctx, identity, id)
}

type registerFn func(ctx context.Context, form domain.SignUpForm) (*domain.User, string, error)

func (f registerFn) Execute(ctx context.Context, form domain.SignUpForm) (*domain.User, string, error) {
	return f(ctx, form)
}

type loginFn func(ctx context.Context, email, password string) (*domain.User, string, error)

func (f loginFn) Execute(ctx context.Context, email, password string) (*domain.User, string, error) {
	return f(ctx, email, password)
}

type requestResetFn func(ctx context.Context, email string) error

func (f requestResetFn) Execute(ctx context.Context, email string) error { return f(ctx, email) }

type resetFn func(ctx context.Context, token string, form domain.PasswordForm) error

func (f resetFn) Execute(ctx context.Context, token string, form domain.PasswordForm) error {
	return f(ctx, token, form)
}

type profileFn func(ctx context.Context, identity domain.Identity) (*domain.User, error)

func (f profileFn) Execute(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return f(ctx, identity)
}

type updateProfileFn func(ctx context.Context, identity domain.Identity, form domain.ProfileForm) (*domain.User, error)

func (f updateProfileFn) Execute(ctx context.Context, identity domain.Identity, form domain.ProfileForm) (*domain.User, error) {
	return f(ctx, identity, form)
}

type fakeOAuth struct {
	user *domain.User
}

func (f *fakeOAuth) LoginURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeOAuth) Execute(ctx context.Context, code string) (*domain.User, string, error) {
	if code != "good-code" {
		return nil, "", domain.ErrInvalidCredentials
	}
	return f.user, "oauth-token", nil
}

// fakeValidator accepts "Bearer good" as testUser.
type fakeValidator struct{}

func (fakeValidator) Execute(ctx context.Context, token string) (domain.Identity, error) {
	if token != "good" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return testIdentity, nil
}

type fakeBlobs struct {
	files map[string][]byte
}

func (f *fakeBlobs) Upload(ctx context.Context, key string, img domain.ImageUpload, progress chan<- domain.UploadProgress) (*port.StoredBlob, error) {
	panic("not used")
}

func (f *fakeBlobs) Delete(ctx context.Context, url string) error { return nil }

func (f *fakeBlobs) Open(ctx context.Context, fileID string) (io.ReadCloser, *port.StoredBlob, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, nil, domain.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &port.StoredBlob{FileID: fileID, ContentType: "image/png", Size: int64(len(data))}, nil
}

var testIdentity = domain.Identity{UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Email: "ann@example.com", Role: domain.RoleUser}

func notImplemented() error { return domain.ErrStoreUnavailable }

// testAPI holds the use case stubs behind a router. Tests replace the ones they need.
type testAPI struct {
	landmarks LandmarkUseCases
	social    struct {
		like       likeFn
		favourite  favouriteFn
		favourites identityListFn
	}
	auth    AuthUseCases
	blobs   *fakeBlobs
	metrics *Metrics
}

func newTestAPI() *testAPI {
	api := &testAPI{blobs: &fakeBlobs{files: map[string][]byte{}}, metrics: NewMetrics()}
	api.landmarks = LandmarkUseCases{
		List: listFn(func(context.Context, domain.PageRequest) (*domain.LandmarkPage, error) { return nil, notImplemented() }),
		Home: homeFn(func(context.Context) (*domain.HomeLandmarks, error) { return nil, notImplemented() }),
		Get:  getFn(func(context.Context, uuid.UUID) (*domain.Landmark, error) { return nil, notImplemented() }),
		Nearby: nearbyFn(func(context.Context, domain.Geolocation, int) ([]domain.Landmark, error) {
			return nil, notImplemented()
		}),
		Create: createFn(func(context.Context, domain.Identity, domain.LandmarkForm, []domain.ImageUpload) (*domain.Landmark, error) {
			return nil, notImplemented()
		}),
		Update: updateFn(func(context.Context, domain.Identity, uuid.UUID, domain.LandmarkForm, []domain.ImageUpload) (*domain.Landmark, error) {
			return nil, notImplemented()
		}),
		Delete:    identityIDFn(func(context.Context, domain.Identity, uuid.UUID) error { return notImplemented() }),
		ListOwned: identityListFn(func(context.Context, domain.Identity) ([]domain.Landmark, error) { return nil, notImplemented() }),
	}
	api.social.like = func(context.Context, domain.Identity, uuid.UUID) (*domain.LikeState, error) {
		return nil, notImplemented()
	}
	api.social.favourite = func(context.Context, domain.Identity, uuid.UUID) (bool, error) { return false, notImplemented() }
	api.social.favourites = func(context.Context, domain.Identity) ([]domain.Landmark, error) { return nil, notImplemented() }
	api.auth = AuthUseCases{
		Register: registerFn(func(context.Context, domain.SignUpForm) (*domain.User, string, error) {
			return nil, "", notImplemented()
		}),
		Login:         loginFn(func(context.Context, string, string) (*domain.User, string, error) { return nil, "", notImplemented() }),
		RequestReset:  requestResetFn(func(context.Context, string) error { return notImplemented() }),
		ResetPassword: resetFn(func(context.Context, string, domain.PasswordForm) error { return notImplemented() }),
		GetProfile:    profileFn(func(context.Context, domain.Identity) (*domain.User, error) { return nil, notImplemented() }),
		UpdateProfile: updateProfileFn(func(context.Context, domain.Identity, domain.ProfileForm) (*domain.User, error) {
			return nil, notImplemented()
		}),
	}
	return api
}

func (api *testAPI) router(t *testing.T) http.Handler {
	t.Helper()
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	n := notifier.NewSSENotifier(logger)
	t.Cleanup(n.Close)

	return NewRouter(
		ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:5173"}},
		Handlers{
			Landmarks: NewLandmarkHandler(api.landmarks, api.blobs),
			Social:    NewSocialHandler(api.social.like, api.social.favourite, api.social.favourites),
			Auth:      NewAuthHandler(api.auth, false),
			Uploads:   NewUploadHandler(n),
		},
		NewAuthMiddleware(fakeValidator{}),
		api.metrics,
		logger,
	)
}
