package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/validator"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/repository"
)

var moderationActions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_moderation_actions_total",
		Help: "Moderation actions applied to reviews",
	},
	[]string{"action"},
)

// validateInput runs struct tag validation and converts failures into a
// VALIDATION_ERROR carrying one message per field.
func validateInput(v any) error {
	err := validator.Validate(v)
	if err == nil {
		return nil
	}
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return apperrors.Validation(valErr.Fields())
	}
	return apperrors.InvalidInput(err.Error())
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// threadCache wraps an optional repository.ThreadCache. Cache failures are
// logged and never reach the caller.
type threadCache struct {
	cache  repository.ThreadCache
	logger *slog.Logger
}

func (c threadCache) invalidate(ctx context.Context, reviewID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, reviewID); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate thread cache",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}
}
