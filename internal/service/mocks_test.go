package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Transactor ---

type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// --- Publisher ---

type published struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: routingKey, payload: payload})
	return p.err
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.key
	}
	return keys
}

// --- ListingCache ---

// fakeCache mirrors the generation check of the redis cache: Set is dropped
// when Invalidate ran after the generation was read.
type fakeCache struct {
	items       map[uuid.UUID]*models.Listing
	generations map[uuid.UUID]int64
	invalidated []uuid.UUID
	beforeSet   func()
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		items:       map[uuid.UUID]*models.Listing{},
		generations: map[uuid.UUID]int64{},
	}
}

func (c *fakeCache) Get(ctx context.Context, id uuid.UUID) (*models.Listing, int64, error) {
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	return c.items[id], c.generations[id], nil
}

func (c *fakeCache) Set(ctx context.Context, l *models.Listing, generation int64) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	if c.generations[l.ID] != generation {
		return nil
	}
	c.items[l.ID] = l
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	c.generations[id]++
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// --- ListingRepository ---

type mockListingRepo struct {
	listings   map[uuid.UUID]*models.Listing
	createFn   func(ctx context.Context, tx *gorm.DB, l *models.Listing) error
	deleteFn   func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (repository.CascadeResult, error)
	findAllErr error
	saved      int
	findByID   int
}

func newMockListingRepo(listings ...*models.Listing) *mockListingRepo {
	m := &mockListingRepo{listings: map[uuid.UUID]*models.Listing{}}
	for _, l := range listings {
		m.listings[l.ID] = l
	}
	return m
}

func (m *mockListingRepo) find(id uuid.UUID) (*models.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockListingRepo) Create(ctx context.Context, tx *gorm.DB, l *models.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, l)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *mockListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	m.findByID++
	return m.find(id)
}

func (m *mockListingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return m.find(id)
}

func (m *mockListingRepo) FindByIDForShare(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return m.find(id)
}

func (m *mockListingRepo) FindAll(ctx context.Context) ([]models.Listing, error) {
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	var out []models.Listing
	for _, l := range m.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockListingRepo) Save(ctx context.Context, tx *gorm.DB, l *models.Listing) error {
	m.saved++
	l.UpdatedAt = time.Now()
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *mockListingRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (repository.CascadeResult, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	if _, ok := m.listings[id]; !ok {
		return repository.CascadeResult{}, gorm.ErrRecordNotFound
	}
	delete(m.listings, id)
	return repository.CascadeResult{ListingIDs: []uuid.UUID{id}, Listings: 1}, nil
}

func (m *mockListingRepo) DeleteByHost(ctx context.Context, tx *gorm.DB, hostID string) (repository.CascadeResult, error) {
	var res repository.CascadeResult
	for id, l := range m.listings {
		if l.HostID == hostID {
			delete(m.listings, id)
			res.ListingIDs = append(res.ListingIDs, id)
			res.Listings++
		}
	}
	return res, nil
}

func (m *mockListingRepo) GetDB() *gorm.DB { return nil }

// --- BookingRepository ---

// mockBookingRepo keeps bookings in memory and answers overlap queries with
// the same half-open comparison the SQL query uses.
type mockBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
	createFn func(ctx context.Context, tx *gorm.DB, b *models.Booking) error
	listErr  error
}

func newMockBookingRepo(bookings ...*models.Booking) *mockBookingRepo {
	m := &mockBookingRepo{bookings: map[uuid.UUID]*models.Booking{}}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, b)
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	return m.FindByID(ctx, id)
}

func (m *mockBookingRepo) filter(keep func(b *models.Booking) bool) []models.Booking {
	var out []models.Booking
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start().Before(out[j].Start()) })
	return out
}

func (m *mockBookingRepo) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(b *models.Booking) bool { return b.ListingID == listingID }), nil
}

func (m *mockBookingRepo) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.filter(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, tx *gorm.DB, listingID uuid.UUID, start, end time.Time) ([]models.Booking, error) {
	return m.filter(func(b *models.Booking) bool {
		return b.ListingID == listingID && b.Start().Before(end) && b.End().After(start)
	}), nil
}

func (m *mockBookingRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, ok := m.bookings[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	var n int64
	for id, b := range m.bookings {
		if b.UserID == userID {
			delete(m.bookings, id)
			n++
		}
	}
	return n, nil
}

func (m *mockBookingRepo) GetDB() *gorm.DB { return nil }

// --- ReviewRepository ---

type mockReviewRepo struct {
	reviews  []*models.Review
	createFn func(ctx context.Context, tx *gorm.DB, r *models.Review) error
}

func (m *mockReviewRepo) Create(ctx context.Context, tx *gorm.DB, r *models.Review) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, r)
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	cp := *r
	m.reviews = append(m.reviews, &cp)
	return nil
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewRepo) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	var kept []*models.Review
	var n int64
	for _, r := range m.reviews {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reviews = kept
	return n, nil
}

func (m *mockReviewRepo) GetDB() *gorm.DB { return nil }
