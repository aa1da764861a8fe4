package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeLandmarkRepo struct {
	mu        sync.Mutex
	landmarks map[uuid.UUID]domain.Landmark
	clock     time.Time
	failWith  error
}

func newFakeLandmarkRepo() *fakeLandmarkRepo {
	return &fakeLandmarkRepo{
		landmarks: make(map[uuid.UUID]domain.Landmark),
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed stores l with the next timestamp, so later seeds are newer.
func (r *fakeLandmarkRepo) seed(l domain.Landmark) domain.Landmark {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_ = r.Create(context.Background(), &l)
	return l
}

func (r *fakeLandmarkRepo) sorted() []domain.Landmark {
	all := make([]domain.Landmark, 0, len(r.landmarks))
	for _, l := range r.landmarks {
		all = append(all, l)
	}
	slices.SortFunc(all, func(a, b domain.Landmark) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return all
}

func (r *fakeLandmarkRepo) FindPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	req = req.Normalize()

	out := make([]domain.Landmark, 0, req.Limit)
	for _, l := range r.sorted() {
		if req.Size != nil && l.Size != *req.Size {
			continue
		}
		if req.Cursor != nil {
			c := l.CreatedAt.Compare(req.Cursor.CreatedAt)
			if c > 0 || (c == 0 && strings.Compare(l.ID.String(), req.Cursor.ID.String()) >= 0) {
				continue
			}
		}
		out = append(out, l)
		if len(out) == req.Limit {
			break
		}
	}
	return domain.NewLandmarkPage(out, req.Limit), nil
}

func (r *fakeLandmarkRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Landmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	l, ok := r.landmarks[id]
	if !ok {
		return nil, nil
	}
	l.Likes = slices.Clone(l.Likes)
	return &l, nil
}

func (r *fakeLandmarkRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Landmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Landmark{}
	// reverse on purpose: callers must not depend on the store order
	for i := len(ids) - 1; i >= 0; i-- {
		if l, ok := r.landmarks[ids[i]]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLandmarkRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Landmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Landmark{}
	for _, l := range r.sorted() {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLandmarkRepo) FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Landmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Landmark{}
	for _, l := range r.sorted() {
		for _, p := range prefixes {
			if strings.HasPrefix(l.Geohash, p) {
				out = append(out, l)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLandmarkRepo) Create(ctx context.Context, l *domain.Landmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.clock = r.clock.Add(time.Minute)
	l.CreatedAt = r.clock
	l.UpdatedAt = r.clock
	r.landmarks[l.ID] = *l
	return nil
}

func (r *fakeLandmarkRepo) Update(ctx context.Context, l *domain.Landmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.landmarks[l.ID]
	if !ok {
		return domain.ErrLandmarkNotFound
	}
	l.OwnerID = stored.OwnerID
	l.CreatedAt = stored.CreatedAt
	r.clock = r.clock.Add(time.Minute)
	l.UpdatedAt = r.clock
	r.landmarks[l.ID] = *l
	return nil
}

func (r *fakeLandmarkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.landmarks, id)
	return nil
}

func (r *fakeLandmarkRepo) AddLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.landmarks[landmarkID]
	if !ok {
		return nil, domain.ErrLandmarkNotFound
	}
	if !slices.Contains(l.Likes, userID) {
		l.Likes = append(slices.Clone(l.Likes), userID)
	}
	r.landmarks[landmarkID] = l
	return slices.Clone(l.Likes), nil
}

func (r *fakeLandmarkRepo) RemoveLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.landmarks[landmarkID]
	if !ok {
		return nil, domain.ErrLandmarkNotFound
	}
	l.Likes = slices.DeleteFunc(slices.Clone(l.Likes), func(id uuid.UUID) bool { return id == userID })
	r.landmarks[landmarkID] = l
	return slices.Clone(l.Likes), nil
}

type fakeBlobs struct {
	mu      sync.Mutex
	stored  map[string][]byte
	deleted []string
	failOn  string // filename that fails to upload
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{stored: make(map[string][]byte)}
}

func (b *fakeBlobs) Upload(ctx context.Context, key string, img domain.ImageUpload, progress chan<- domain.UploadProgress) (*port.StoredBlob, error) {
	if b.failOn != "" && img.Filename == b.failOn {
		return nil, errors.New("blob store rejected the write")
	}
	data, err := io.ReadAll(img.Content)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress <- domain.UploadProgress{Filename: img.Filename, BytesTransferred: int64(len(data)), TotalBytes: img.Size, Done: true}
	}
	url := "https://img.test/" + key
	b.mu.Lock()
	b.stored[url] = data
	b.mu.Unlock()
	return &port.StoredBlob{FileID: key, Key: key, URL: url, ContentType: img.ContentType, Size: int64(len(data))}, nil
}

func (b *fakeBlobs) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.stored, url)
	b.deleted = append(b.deleted, url)
	return nil
}

func (b *fakeBlobs) Open(ctx context.Context, fileID string) (io.ReadCloser, *port.StoredBlob, error) {
	return nil, nil, domain.ErrImageNotFound
}

func (b *fakeBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stored)
}

type fakeGeocoder struct {
	known map[string]domain.Geolocation
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Geolocation, error) {
	geo, ok := g.known[address]
	if !ok {
		return domain.Geolocation{}, domain.ErrAddressNotFound
	}
	return geo, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fakeNotifier struct {
	mu       sync.Mutex
	received []domain.UploadProgress
}

func (n *fakeNotifier) NotifyProgress(userID uuid.UUID, progress domain.UploadProgress) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, progress)
}

type fakeFavorites struct {
	mu    sync.Mutex
	links map[uuid.UUID][]uuid.UUID // user -> landmarks, newest first
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{links: make(map[uuid.UUID][]uuid.UUID)}
}

func (f *fakeFavorites) Add(ctx context.Context, userID, landmarkID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.Contains(f.links[userID], landmarkID) {
		return nil
	}
	f.links[userID] = append([]uuid.UUID{landmarkID}, f.links[userID]...)
	return nil
}

func (f *fakeFavorites) Remove(ctx context.Context, userID, landmarkID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[userID] = slices.DeleteFunc(f.links[userID], func(id uuid.UUID) bool { return id == landmarkID })
	return nil
}

func (f *fakeFavorites) Exists(ctx context.Context, userID, landmarkID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.links[userID], landmarkID), nil
}

func (f *fakeFavorites) FindIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.links[userID]), nil
}

func (f *fakeFavorites) RemoveLandmark(ctx context.Context, landmarkID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for user, ids := range f.links {
		f.links[user] = slices.DeleteFunc(ids, func(id uuid.UUID) bool { return id == landmarkID })
	}
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailInUse
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Username = username
	return nil
}

func (r *fakeUsers) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].PasswordHash = hash
	return nil
}

// fakeTokens encodes claims in plain text; good enough for use case tests.
type fakeTokens struct{}

func (fakeTokens) GenerateToken(ctx context.Context, user *domain.User, purpose string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s|%s", purpose, user.ID, user.Email), nil
}

func (fakeTokens) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	parts := strings.Split(tokenString, "|")
	if len(parts) != 3 {
		return nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Claims{UserID: id, Email: parts[2], Role: domain.RoleUser, Purpose: parts[0]}, nil
}

func jpeg(name string, size int) domain.ImageUpload {
	return domain.ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(size),
		Content:     bytes.NewReader(make([]byte, size)),
	}
}
