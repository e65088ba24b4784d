package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/auth"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/event"
	"github.com/CodeMeAPixel/Portfolio-sub001/internal/repository"
)

// ModerationService drives the review state machine. Every command is
// restricted to moderators and checked before the review is looked up.
type ModerationService struct {
	reviews  repository.ReviewRepository
	cache    threadCache
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewModerationService creates a new moderation service. cache may be nil.
func NewModerationService(
	reviews repository.ReviewRepository,
	cache repository.ThreadCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		reviews:  reviews,
		cache:    threadCache{cache: cache, logger: logger},
		producer: producer,
		logger:   logger,
		now:      utcNow,
	}
}

// Approve moves the review to approved.
func (s *ModerationService) Approve(ctx context.Context, caller auth.Caller, reviewID string) (*domain.Review, error) {
	return s.apply(ctx, caller, reviewID, domain.CommandApprove, "")
}

// Deny moves the review to denied and overwrites the stored reason. An empty
// reason clears it.
func (s *ModerationService) Deny(ctx context.Context, caller auth.Caller, reviewID, reason string) (*domain.Review, error) {
	return s.apply(ctx, caller, reviewID, domain.CommandDeny, strings.TrimSpace(reason))
}

// RequestChanges moves the review to changes_requested and appends comment
// to its thread as the moderator. Both happen or neither does.
func (s *ModerationService) RequestChanges(ctx context.Context, caller auth.Caller, reviewID, comment string) (*domain.Review, error) {
	if err := auth.Authorize(caller, auth.ActionModerate, nil); err != nil {
		return nil, err
	}
	if blank(comment) {
		return nil, apperrors.Validation(map[string]string{"comment": "must not be blank"})
	}
	return s.apply(ctx, caller, reviewID, domain.CommandRequestChanges, comment)
}

// SetFeatured sets the featured flag. It does not touch status.
func (s *ModerationService) SetFeatured(ctx context.Context, caller auth.Caller, reviewID string, featured bool) (*domain.Review, error) {
	if err := auth.Authorize(caller, auth.ActionModerate, nil); err != nil {
		return nil, err
	}

	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	review, err := s.reviews.UpdateModeration(ctx, reviewID, repository.ModerationUpdate{
		Featured:  &featured,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	moderationActions.WithLabelValues("set_featured").Inc()

	if err := s.producer.PublishFeaturedChanged(ctx, review, caller.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish featured changed event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review featured flag set",
		slog.String("review_id", review.ID),
		slog.Bool("featured", featured),
		slog.String("moderator_id", caller.ID),
	)

	return review, nil
}

// apply runs cmd through the transition table and persists the result
// together with its effect. arg is the denial reason or the moderator
// comment depending on the effect.
func (s *ModerationService) apply(ctx context.Context, caller auth.Caller, reviewID string, cmd domain.Command, arg string) (*domain.Review, error) {
	if err := auth.Authorize(caller, auth.ActionModerate, nil); err != nil {
		return nil, err
	}

	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	next, effect, err := domain.Transition(current.Status, cmd)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("moderate review %s: %w", reviewID, err))
	}

	now := s.now()
	var (
		review  *domain.Review
		comment *domain.Comment
	)

	switch effect {
	case domain.EffectAppendModeratorComment:
		comment = &domain.Comment{
			ID:         uuid.New().String(),
			ReviewID:   current.ID,
			AuthorID:   caller.ID,
			AuthorRole: domain.AuthorRoleModerator,
			Content:    arg,
			CreatedAt:  now,
		}
		review, err = s.reviews.RequestChanges(ctx, current.ID, next, now, comment)
		if err != nil {
			return nil, err
		}
		s.cache.invalidate(ctx, current.ID)

	case domain.EffectSetDenialReason:
		reason := arg
		review, err = s.reviews.UpdateModeration(ctx, current.ID, repository.ModerationUpdate{
			Status:       &next,
			DenialReason: &reason,
			UpdatedAt:    now,
		})
		if err != nil {
			return nil, err
		}

	default:
		review, err = s.reviews.UpdateModeration(ctx, current.ID, repository.ModerationUpdate{
			Status:    &next,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, err
		}
	}

	moderationActions.WithLabelValues(string(cmd)).Inc()

	if comment != nil {
		if err := s.producer.PublishCommentAdded(ctx, comment); err != nil {
			s.logger.WarnContext(ctx, "failed to publish comment added event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if err := s.producer.PublishStatusChanged(ctx, review, current.Status, caller.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish status changed event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review moderated",
		slog.String("review_id", review.ID),
		slog.String("command", string(cmd)),
		slog.String("from", string(current.Status)),
		slog.String("to", string(review.Status)),
		slog.String("effect", effect.String()),
		slog.String("moderator_id", caller.ID),
	)

	return review, nil
}
