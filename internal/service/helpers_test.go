package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"
	pkgkafka "github.com/CodeMeAPixel/Portfolio-sub001/pkg/kafka"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/auth"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/event"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/repository"
)

var (
	submitter = auth.Caller{ID: "user-s"}
	stranger  = auth.Caller{ID: "user-x"}
	moderator = auth.Caller{ID: "mod-m", Role: auth.RoleModerator}
	anonymous = auth.Caller{}
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newClock returns a strictly increasing clock so ordering by time is stable.
func newClock() func() time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var n int
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

// --- Event publisher ---

type published struct {
	topic string
	event *pkgkafka.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, ev *pkgkafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, published{topic: topic, event: ev})
	return nil
}

func (r *recordingPublisher) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.topic)
	}
	return out
}

// --- In-memory store ---

// memStore keeps reviews and threads in maps and implements both
// repositories, so scenario tests can observe the combined state.
type memStore struct {
	mu       sync.Mutex
	reviews  map[string]domain.Review
	comments map[string][]domain.Comment

	// failRequestChanges makes RequestChanges fail without applying anything.
	failRequestChanges error
}

func newMemStore() *memStore {
	return &memStore{
		reviews:  make(map[string]domain.Review),
		comments: make(map[string][]domain.Comment),
	}
}

func (m *memStore) load(id string) (*domain.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	r.CommentCount = len(m.comments[id])
	return &r, nil
}

func (m *memStore) Create(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = *review
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

func (m *memStore) page(match func(domain.Review) bool, page, perPage int) ([]domain.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Review{}
	for id, r := range m.reviews {
		if match(r) {
			r.CommentCount = len(m.comments[id])
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	total := len(out)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (m *memStore) List(_ context.Context, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	return m.page(func(r domain.Review) bool {
		return filter.Status == nil || r.Status == *filter.Status
	}, filter.Page, filter.PerPage)
}

func (m *memStore) ListByAuthor(_ context.Context, authorID string, page, perPage int) ([]domain.Review, int, error) {
	return m.page(func(r domain.Review) bool { return r.AuthorID == authorID }, page, perPage)
}

func (m *memStore) UpdateModeration(_ context.Context, id string, upd repository.ModerationUpdate) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	if upd.Status != nil {
		r.Status = *upd.Status
	}
	if upd.DenialReason != nil {
		r.DenialReason = *upd.DenialReason
	}
	if upd.Featured != nil {
		r.Featured = *upd.Featured
	}
	r.UpdatedAt = upd.UpdatedAt
	m.reviews[id] = r
	return m.load(id)
}

func (m *memStore) RequestChanges(_ context.Context, id string, status domain.Status, updatedAt time.Time, comment *domain.Comment) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failRequestChanges != nil {
		return nil, m.failRequestChanges
	}
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperrors.NotFound("review", id)
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	m.reviews[id] = r
	m.comments[id] = append(m.comments[id], *comment)
	return m.load(id)
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return apperrors.NotFound("review", id)
	}
	delete(m.reviews, id)
	delete(m.comments, id)
	return nil
}

func (m *memStore) Append(_ context.Context, comment *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[comment.ReviewID]; !ok {
		return apperrors.NotFound("review", comment.ReviewID)
	}
	m.comments[comment.ReviewID] = append(m.comments[comment.ReviewID], *comment)
	return nil
}

func (m *memStore) ListByReview(_ context.Context, reviewID string) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]domain.Comment{}, m.comments[reviewID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) DeleteAllForReview(_ context.Context, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.comments, reviewID)
	return nil
}

func (m *memStore) commentCount(reviewID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comments[reviewID])
}

func (m *memStore) snapshot(id string) domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviews[id]
}

// --- Service wiring ---

type testEnv struct {
	store      *memStore
	publisher  *recordingPublisher
	reviews    *ReviewService
	moderation *ModerationService
}

func newTestEnv(opts ...ReviewServiceOption) *testEnv {
	store := newMemStore()
	pub := &recordingPublisher{}
	logger := newTestLogger()
	producer := event.NewProducer(pub, logger)
	clock := newClock()

	reviews := NewReviewService(store, store, producer, logger, opts...)
	reviews.now = clock
	moderation := NewModerationService(store, nil, producer, logger)
	moderation.now = clock

	return &testEnv{store: store, publisher: pub, reviews: reviews, moderation: moderation}
}

func newMockReviewService(reviews *mockReviewRepository, comments *mockCommentRepository, opts ...ReviewServiceOption) *ReviewService {
	logger := newTestLogger()
	producer := event.NewProducer(&recordingPublisher{}, logger)
	return NewReviewService(reviews, comments, producer, logger, opts...)
}

func newMockModerationService(reviews *mockReviewRepository) *ModerationService {
	logger := newTestLogger()
	producer := event.NewProducer(&recordingPublisher{}, logger)
	return NewModerationService(reviews, nil, producer, logger)
}

func validInput() SubmitInput {
	return SubmitInput{Rating: 5, Text: "Great work"}
}

func boolPtr(b bool) *bool {
	return &b
}

func statusPtr(s domain.Status) *domain.Status {
	return &s
}

// interleavingCache is an in-memory ThreadCache that can run a callback
// right before the next Set stores its value.
type interleavingCache struct {
	mu      sync.Mutex
	threads map[string][]domain.Comment
	hook    func()
}

func newInterleavingCache() *interleavingCache {
	return &interleavingCache{threads: make(map[string][]domain.Comment)}
}

func (c *interleavingCache) beforeNextSet(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = fn
}

func (c *interleavingCache) entry(reviewID string) ([]domain.Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	thread, ok := c.threads[reviewID]
	return thread, ok
}

func (c *interleavingCache) Get(_ context.Context, reviewID string) ([]domain.Comment, bool, error) {
	thread, ok := c.entry(reviewID)
	return append([]domain.Comment{}, thread...), ok, nil
}

func (c *interleavingCache) Set(_ context.Context, reviewID string, comments []domain.Comment) error {
	c.mu.Lock()
	hook := c.hook
	c.hook = nil
	c.mu.Unlock()

	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.threads[reviewID] = append([]domain.Comment{}, comments...)
	return nil
}

func (c *interleavingCache) Invalidate(_ context.Context, reviewID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.threads, reviewID)
	return nil
}
