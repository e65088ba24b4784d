package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/auth"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/event"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/repository"
)

// ReviewService implements submission, threads and the submitter-facing
// queries.
type ReviewService struct {
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
	cache    threadCache
	producer *event.Producer
	logger   *slog.Logger

	// hideForbidden reports another user's review as not found instead of
	// forbidden, so callers cannot probe for ids.
	hideForbidden bool
	now           func() time.Time
}

// ReviewServiceOption customizes a ReviewService.
type ReviewServiceOption func(*ReviewService)

// WithThreadCache puts cache in front of thread reads.
func WithThreadCache(cache repository.ThreadCache) ReviewServiceOption {
	return func(s *ReviewService) { s.cache.cache = cache }
}

// WithHideForbidden toggles existence hiding for reads, comments and
// DeleteOwn. It is off by default, so strangers get Forbidden.
func WithHideForbidden(hide bool) ReviewServiceOption {
	return func(s *ReviewService) { s.hideForbidden = hide }
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	comments repository.CommentRepository,
	producer *event.Producer,
	logger *slog.Logger,
	opts ...ReviewServiceOption,
) *ReviewService {
	s := &ReviewService{
		reviews:  reviews,
		comments: comments,
		cache:    threadCache{logger: logger},
		producer: producer,
		logger:   logger,
		now:      utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput holds the fields a submitter provides.
type SubmitInput struct {
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	Text        string `json:"text" validate:"required,notblank,max=5000"`
	ProjectName string `json:"project_name" validate:"max=200"`
	Company     string `json:"company" validate:"max=200"`
	Position    string `json:"position" validate:"max=200"`
	WorkDone    string `json:"work_done" validate:"max=2000"`
	Avatar      string `json:"avatar" validate:"omitempty,url,max=2048"`
}

// ModerationFilter narrows ListForModeration.
type ModerationFilter struct {
	Status  string
	Page    int
	PerPage int
}

// Submit creates a pending review owned by the caller.
func (s *ReviewService) Submit(ctx context.Context, caller auth.Caller, in SubmitInput) (*domain.Review, error) {
	if err := auth.Authorize(caller, auth.ActionSubmit, nil); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	review := &domain.Review{
		ID:          uuid.New().String(),
		AuthorID:    caller.ID,
		Rating:      in.Rating,
		Text:        in.Text,
		ProjectName: in.ProjectName,
		Company:     in.Company,
		Position:    in.Position,
		WorkDone:    in.WorkDone,
		Avatar:      in.Avatar,
		Status:      domain.StatusPending,
		Featured:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.producer.PublishReviewSubmitted(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review submitted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.String("author_id", review.AuthorID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// resolve loads a review and checks that caller may perform action on it.
func (s *ReviewService) resolve(ctx context.Context, caller auth.Caller, reviewID string, action auth.Action) (*domain.Review, error) {
	if err := auth.RequireIdentity(caller); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := auth.Authorize(caller, action, review); err != nil {
		return nil, s.conceal(err, reviewID)
	}
	return review, nil
}

// conceal turns a Forbidden into NotFound when hiding is enabled.
func (s *ReviewService) conceal(err error, reviewID string) error {
	if s.hideForbidden && apperrors.IsForbidden(err) {
		return apperrors.NotFound("review", reviewID)
	}
	return err
}

// GetReview returns a review to its owner or a moderator.
func (s *ReviewService) GetReview(ctx context.Context, caller auth.Caller, reviewID string) (*domain.Review, error) {
	return s.resolve(ctx, caller, reviewID, auth.ActionRead)
}

// AddComment appends content to the review's thread. The comment's author
// role is derived from the caller, never supplied.
func (s *ReviewService) AddComment(ctx context.Context, caller auth.Caller, reviewID, content string) (*domain.Comment, error) {
	if err := auth.RequireIdentity(caller); err != nil {
		return nil, err
	}
	if blank(content) {
		return nil, apperrors.Validation(map[string]string{"content": "must not be blank"})
	}

	review, err := s.resolve(ctx, caller, reviewID, auth.ActionComment)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:         uuid.New().String(),
		ReviewID:   review.ID,
		AuthorID:   caller.ID,
		AuthorRole: auth.CommentRole(caller, review),
		Content:    content,
		CreatedAt:  s.now(),
	}

	if err := s.comments.Append(ctx, comment); err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx, review.ID)

	if err := s.producer.PublishCommentAdded(ctx, comment); err != nil {
		s.logger.WarnContext(ctx, "failed to publish comment added event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "comment added",
		slog.String("review_id", review.ID),
		slog.String("comment_id", comment.ID),
		slog.String("author_role", string(comment.AuthorRole)),
	)

	return comment, nil
}

// ListThread returns the review's comments oldest first. A cached thread is
// served only when its length matches the review's comment count.
func (s *ReviewService) ListThread(ctx context.Context, caller auth.Caller, reviewID string) ([]domain.Comment, error) {
	review, err := s.resolve(ctx, caller, reviewID, auth.ActionRead)
	if err != nil {
		return nil, err
	}

	if s.cache.cache != nil {
		cached, ok, err := s.cache.cache.Get(ctx, review.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "thread cache read failed",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		} else if ok && len(cached) == review.CommentCount {
			return cached, nil
		} else if ok {
			// A fill raced with an append; threads only grow, so a short
			// entry is stale.
			s.logger.DebugContext(ctx, "thread cache entry stale",
				slog.String("review_id", review.ID),
				slog.Int("cached", len(cached)),
				slog.Int("stored", review.CommentCount),
			)
		}
	}

	comments, err := s.comments.ListByReview(ctx, review.ID)
	if err != nil {
		return nil, err
	}

	if s.cache.cache != nil {
		if err := s.cache.cache.Set(ctx, review.ID, comments); err != nil {
			s.logger.WarnContext(ctx, "thread cache write failed",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return comments, nil
}

// ListMine returns the caller's own reviews, newest first.
func (s *ReviewService) ListMine(ctx context.Context, caller auth.Caller, page, perPage int) ([]domain.Review, int, error) {
	if err := auth.RequireIdentity(caller); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByAuthor(ctx, caller.ID, page, perPage)
}

// ListForModeration returns the full queue to moderators.
func (s *ReviewService) ListForModeration(ctx context.Context, caller auth.Caller, filter ModerationFilter) ([]domain.Review, int, error) {
	if err := auth.Authorize(caller, auth.ActionListAll, nil); err != nil {
		return nil, 0, err
	}

	repoFilter := repository.ReviewFilter{Page: filter.Page, PerPage: filter.PerPage}
	if filter.Status != "" {
		status := domain.Status(filter.Status)
		if !status.IsValid() {
			return nil, 0, apperrors.Validation(map[string]string{
				"status": "must be one of: pending approved denied changes_requested",
			})
		}
		repoFilter.Status = &status
	}

	return s.reviews.List(ctx, repoFilter)
}

// DeleteOwn deletes a review the caller submitted. Moderators deleting
// someone else's review must use DeleteAny.
func (s *ReviewService) DeleteOwn(ctx context.Context, caller auth.Caller, reviewID string) error {
	review, err := s.resolve(ctx, caller, reviewID, auth.ActionDelete)
	if err != nil {
		return err
	}
	if !review.IsOwnedBy(caller.ID) {
		return apperrors.Forbidden("only the author may delete this review here")
	}

	return s.delete(ctx, caller, review, domain.AuthorRoleSubmitter)
}

// DeleteAny lets a moderator delete any review.
func (s *ReviewService) DeleteAny(ctx context.Context, caller auth.Caller, reviewID string) error {
	if err := auth.Authorize(caller, auth.ActionModerate, nil); err != nil {
		return err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := s.delete(ctx, caller, review, domain.AuthorRoleModerator); err != nil {
		return err
	}
	moderationActions.WithLabelValues("delete").Inc()
	return nil
}

func (s *ReviewService) delete(ctx context.Context, caller auth.Caller, review *domain.Review, as domain.AuthorRole) error {
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return err
	}
	s.cache.invalidate(ctx, review.ID)

	if err := s.producer.PublishReviewDeleted(ctx, review, caller.ID, string(as)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("deleted_by", caller.ID),
		slog.String("as", string(as)),
	)
	return nil
}
