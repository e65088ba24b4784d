package repository

import (
	"context"
	"time"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

// ReviewFilter narrows the moderation queue.
type ReviewFilter struct {
	Status  *domain.Status
	Page    int
	PerPage int
}

// ModerationUpdate is the only field set a moderation command may write.
// Nil fields are left untouched. Rating, text and author are immutable after
// creation.
type ModerationUpdate struct {
	Status       *domain.Status
	DenialReason *string
	Featured     *bool
	UpdatedAt    time.Time
}

// ReviewRepository persists reviews. Every method returns an
// apperrors.NotFound error when the id does not resolve.
type ReviewRepository interface {
	// Create inserts a fully built review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID returns the review with its current comment count.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns the moderation queue, newest first, and the total count.
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, int, error)

	// ListByAuthor returns one author's reviews, newest first, and the total count.
	ListByAuthor(ctx context.Context, authorID string, page, perPage int) ([]domain.Review, int, error)

	// UpdateModeration writes the moderation fields and returns the stored review.
	UpdateModeration(ctx context.Context, id string, upd ModerationUpdate) (*domain.Review, error)

	// RequestChanges writes status and appends comment in one transaction.
	// Either both are applied or neither is.
	RequestChanges(ctx context.Context, id string, status domain.Status, updatedAt time.Time, comment *domain.Comment) (*domain.Review, error)

	// Delete removes the review together with its thread.
	Delete(ctx context.Context, id string) error
}

// CommentRepository persists the append-only review threads.
type CommentRepository interface {
	// Append stores comment. It fails with NotFound if the review is gone.
	Append(ctx context.Context, comment *domain.Comment) error

	// ListByReview returns the thread ordered by (created_at, id).
	ListByReview(ctx context.Context, reviewID string) ([]domain.Comment, error)

	// DeleteAllForReview removes a whole thread. ReviewRepository.Delete does
	// not depend on it; the schema cascades.
	DeleteAllForReview(ctx context.Context, reviewID string) error
}

// ThreadCache holds serialized threads in front of CommentRepository.
type ThreadCache interface {
	// Get returns the cached thread and whether it was present.
	Get(ctx context.Context, reviewID string) ([]domain.Comment, bool, error)
	Set(ctx context.Context, reviewID string, comments []domain.Comment) error
	Invalidate(ctx context.Context, reviewID string) error
}
