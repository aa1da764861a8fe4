package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	FirstPageSize = 8
	NextPageSize  = 4
	MaxPageSize   = 50
	HomePageSize  = 4
)

// PageCursor marks the last record of the previous page under the fixed
// created_at DESC, id DESC order.
type PageCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type cursorWire struct {
	T string    `json:"t"`
	I uuid.UUID `json:"i"`
}

// CursorFromLandmark builds the cursor that continues after l.
func CursorFromLandmark(l Landmark) PageCursor {
	return PageCursor{CreatedAt: l.CreatedAt, ID: l.ID}
}

// Encode returns the opaque wire form of the cursor.
func (c PageCursor) Encode() string {
	raw, _ := json.Marshal(cursorWire{T: c.CreatedAt.UTC().Format(time.RFC3339Nano), I: c.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a cursor produced by Encode.
func DecodeCursor(s string) (PageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return PageCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var w cursorWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return PageCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	t, err := time.Parse(time.RFC3339Nano, w.T)
	if err != nil {
		return PageCursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if w.I == uuid.Nil {
		return PageCursor{}, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}
	return PageCursor{CreatedAt: t, ID: w.I}, nil
}

// PageRequest asks the store for one page of landmarks, newest first.
type PageRequest struct {
	Size   *Size // category constraint, nil means all sizes
	Limit  int
	Cursor *PageCursor
}

// FirstPageRequest is the initial request of a listing.
func FirstPageRequest(size *Size) PageRequest {
	return PageRequest{Size: size, Limit: FirstPageSize}
}

// NextPageRequest continues a listing after cursor.
func NextPageRequest(size *Size, cursor PageCursor) PageRequest {
	return PageRequest{Size: size, Limit: NextPageSize, Cursor: &cursor}
}

// Normalize applies the default limit for the request kind and caps it.
func (r PageRequest) Normalize() PageRequest {
	if r.Limit <= 0 {
		if r.Cursor == nil {
			r.Limit = FirstPageSize
		} else {
			r.Limit = NextPageSize
		}
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
	return r
}

// LandmarkPage is one fetched page.
type LandmarkPage struct {
	Records []Landmark
	Cursor  *PageCursor // nil when the page is empty
	HasMore bool
}

// NewLandmarkPage derives the cursor and the has-more flag of a page fetched with limit.
func NewLandmarkPage(records []Landmark, limit int) *LandmarkPage {
	page := &LandmarkPage{
		Records: records,
		HasMore: limit > 0 && len(records) >= limit,
	}
	if len(records) > 0 {
		c := CursorFromLandmark(records[len(records)-1])
		page.Cursor = &c
	}
	return page
}

// PageState is the value object the pagination controller hands back after each call.
type PageState struct {
	LastRecord *Landmark
	HasMore    bool
}

// Cursor returns the continuation cursor, if any.
func (s PageState) Cursor() *PageCursor {
	if s.LastRecord == nil {
		return nil
	}
	c := CursorFromLandmark(*s.LastRecord)
	return &c
}

// HomeLandmarks holds the newest records of each size.
type HomeLandmarks struct {
	Small []Landmark
	Large []Landmark
}
