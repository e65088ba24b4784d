package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/CodeMeAPixel/Portfolio-sub001/pkg/kafka"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/logger"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

// Kafka topics for review lifecycle events.
const (
	TopicReviewSubmitted       = "portfolio.review.submitted"
	TopicReviewStatusChanged   = "portfolio.review.status_changed"
	TopicReviewFeaturedChanged = "portfolio.review.featured_changed"
	TopicReviewCommentAdded    = "portfolio.review.comment_added"
	TopicReviewDeleted         = "portfolio.review.deleted"
)

// SourceReviewService identifies events emitted by this service.
const SourceReviewService = "portfolio-reviews"

// ReviewSubmittedData is the payload for review.submitted.
type ReviewSubmittedData struct {
	ReviewID string `json:"review_id"`
	AuthorID string `json:"author_id"`
	Rating   int    `json:"rating"`
}

// StatusChangedData is the payload for review.status_changed.
type StatusChangedData struct {
	ReviewID     string        `json:"review_id"`
	AuthorID     string        `json:"author_id"`
	OldStatus    domain.Status `json:"old_status"`
	NewStatus    domain.Status `json:"new_status"`
	DenialReason string        `json:"denial_reason,omitempty"`
	ModeratorID  string        `json:"moderator_id"`
}

// FeaturedChangedData is the payload for review.featured_changed.
type FeaturedChangedData struct {
	ReviewID    string `json:"review_id"`
	Featured    bool   `json:"featured"`
	ModeratorID string `json:"moderator_id"`
}

// CommentAddedData is the payload for review.comment_added.
type CommentAddedData struct {
	ReviewID   string            `json:"review_id"`
	CommentID  string            `json:"comment_id"`
	AuthorID   string            `json:"author_id"`
	AuthorRole domain.AuthorRole `json:"author_role"`
}

// ReviewDeletedData is the payload for review.deleted.
type ReviewDeletedData struct {
	ReviewID  string `json:"review_id"`
	AuthorID  string `json:"author_id"`
	DeletedBy string `json:"deleted_by"`
	ByRole    string `json:"by_role"`
}

// Publisher is what Producer needs from the Kafka layer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes review domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, eventType, reviewID, actor string, data any) error {
	ev, err := pkgkafka.NewEvent(eventType, reviewID, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	ev.CorrelationID = logger.CorrelationIDFromContext(ctx)
	ev.Actor = actor

	if err := p.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("review_id", reviewID),
	)
	return nil
}

// PublishReviewSubmitted publishes review.submitted.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, r *domain.Review) error {
	return p.publish(ctx, TopicReviewSubmitted, "review.submitted", r.ID, r.AuthorID, ReviewSubmittedData{
		ReviewID: r.ID,
		AuthorID: r.AuthorID,
		Rating:   r.Rating,
	})
}

// PublishStatusChanged publishes review.status_changed.
func (p *Producer) PublishStatusChanged(ctx context.Context, r *domain.Review, old domain.Status, moderatorID string) error {
	data := StatusChangedData{
		ReviewID:    r.ID,
		AuthorID:    r.AuthorID,
		OldStatus:   old,
		NewStatus:   r.Status,
		ModeratorID: moderatorID,
	}
	if r.Status == domain.StatusDenied {
		data.DenialReason = r.DenialReason
	}
	return p.publish(ctx, TopicReviewStatusChanged, "review.status_changed", r.ID, moderatorID, data)
}

// PublishFeaturedChanged publishes review.featured_changed.
func (p *Producer) PublishFeaturedChanged(ctx context.Context, r *domain.Review, moderatorID string) error {
	return p.publish(ctx, TopicReviewFeaturedChanged, "review.featured_changed", r.ID, moderatorID, FeaturedChangedData{
		ReviewID:    r.ID,
		Featured:    r.Featured,
		ModeratorID: moderatorID,
	})
}

// PublishCommentAdded publishes review.comment_added.
func (p *Producer) PublishCommentAdded(ctx context.Context, c *domain.Comment) error {
	return p.publish(ctx, TopicReviewCommentAdded, "review.comment_added", c.ReviewID, c.AuthorID, CommentAddedData{
		ReviewID:   c.ReviewID,
		CommentID:  c.ID,
		AuthorID:   c.AuthorID,
		AuthorRole: c.AuthorRole,
	})
}

// PublishReviewDeleted publishes review.deleted.
func (p *Producer) PublishReviewDeleted(ctx context.Context, r *domain.Review, deletedBy, byRole string) error {
	return p.publish(ctx, TopicReviewDeleted, "review.deleted", r.ID, deletedBy, ReviewDeletedData{
		ReviewID:  r.ID,
		AuthorID:  r.AuthorID,
		DeletedBy: deletedBy,
		ByRole:    byRole,
	})
}
