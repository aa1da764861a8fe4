package usecase

import (
	"context"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"
	"slices"
	"sync"
)

// ListingSession is the state of one listing view: the pagination controller plus the
// filter and sort selections applied over everything fetched so far.
//
// Only one page request runs at a time. A Load or LoadMore issued while another is in
// flight returns domain.ErrLoadInProgress and changes nothing. Results that arrive after
// Close are dropped.
type ListingSession struct {
	pages    port.LandmarkPageFetcherPort
	category *domain.Size

	mu        sync.Mutex
	records   []domain.Landmark
	state     domain.PageState
	loaded    bool
	inFlight  bool
	closed    bool
	predicate domain.Predicate
	sortKey   domain.SortKey
	items     []domain.Landmark
}

// NewListingSession starts an idle session. A nil category lists every size.
func NewListingSession(pages port.LandmarkPageFetcherPort, category *domain.Size) *ListingSession {
	return &ListingSession{
		pages:    pages,
		category: category,
		records:  []domain.Landmark{},
		items:    []domain.Landmark{},
	}
}

// Load fetches the first page and replaces whatever was accumulated before.
// For a category session an empty first page returns domain.ErrCategoryEmpty.
func (s *ListingSession) Load(ctx context.Context) (domain.PageState, error) {
	return s.fetch(ctx, true)
}

// LoadMore appends the next page. It loads the first page when nothing was loaded yet
// and does nothing once the listing is exhausted.
func (s *ListingSession) LoadMore(ctx context.Context) (domain.PageState, error) {
	return s.fetch(ctx, false)
}

func (s *ListingSession) fetch(ctx context.Context, first bool) (domain.PageState, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "ListingSession"})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.PageState{}, domain.ErrSessionClosed
	}
	if s.inFlight {
		state := s.state
		s.mu.Unlock()
		logger.Debug("Page request ignored, another one is in flight", nil)
		return state, domain.ErrLoadInProgress
	}
	if !s.loaded {
		first = true
	}
	if !first && !s.state.HasMore {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	req := domain.FirstPageRequest(s.category)
	if !first {
		cursor := s.state.Cursor()
		if cursor == nil {
			first = true
		} else {
			req = domain.NextPageRequest(s.category, *cursor)
		}
	}
	s.inFlight = true
	s.mu.Unlock()

	page, err := s.pages.FetchPage(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if s.closed {
		logger.Debug("Discarding page that arrived after the session was closed", nil)
		return domain.PageState{}, domain.ErrSessionClosed
	}
	if err != nil {
		logger.Warn("Page request failed, state left unchanged", port.Fields{"error": err.Error()})
		return s.state, err
	}

	if first {
		s.records = slices.Clone(page.Records)
	} else {
		s.records = append(s.records, page.Records...)
	}
	s.loaded = true

	state := domain.PageState{HasMore: page.HasMore}
	if len(page.Records) > 0 {
		last := page.Records[len(page.Records)-1]
		state.LastRecord = &last
	} else if !first {
		// an empty follow-up page keeps the old cursor
		state.LastRecord = s.state.LastRecord
	}
	s.state = state
	s.rederive()

	logger.Debug("Page applied", port.Fields{
		"page_count":  len(page.Records),
		"accumulated": len(s.records),
		"has_more":    state.HasMore,
	})

	if first && s.category != nil && len(page.Records) == 0 {
		return s.state, domain.ErrCategoryEmpty
	}
	return s.state, nil
}

// SetPredicate changes the filter and re-derives the visible items.
func (s *ListingSession) SetPredicate(p domain.Predicate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predicate = p
	s.rederive()
}

// SetSortKey changes the ordering and re-derives the visible items.
func (s *ListingSession) SetSortKey(key domain.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
	s.rederive()
}

// rederive must be called with mu held.
func (s *ListingSession) rederive() {
	s.items = domain.SortLandmarks(domain.FilterLandmarks(s.records, s.predicate), s.sortKey)
}

// Items returns the filtered and sorted projection of the accumulated records.
func (s *ListingSession) Items() []domain.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Records returns everything fetched so far in fetch order.
func (s *ListingSession) Records() []domain.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Types lists the distinct type labels among the fetched records.
func (s *ListingSession) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.DistinctTypes(s.records)
}

func (s *ListingSession) State() domain.PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ListingSession) Predicate() domain.Predicate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.predicate
}

func (s *ListingSession) SortKey() domain.SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey
}

// Close ends the session. It is safe to call more than once.
func (s *ListingSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
