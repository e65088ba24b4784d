package http

import (
	"log/slog"
	"net/http"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/httputil"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/validator"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/service"
)

// ModerationHandler serves the moderator console endpoints.
type ModerationHandler struct {
	moderation *service.ModerationService
	reviews    *service.ReviewService
	logger     *slog.Logger
}

// NewModerationHandler creates a new moderation HTTP handler.
func NewModerationHandler(moderation *service.ModerationService, reviews *service.ReviewService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderation: moderation,
		reviews:    reviews,
		logger:     logger,
	}
}

// ListReviews handles GET /api/v1/moderation/reviews
func (h *ModerationHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r, h.logger)
	if !ok {
		return
	}

	reviews, total, err := h.reviews.ListForModeration(r.Context(), callerFrom(r), service.ModerationFilter{
		Status:  r.URL.Query().Get("status"),
		Page:    p.Page,
		PerPage: p.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, p.Page, p.PerPage))
}

// Approve handles POST /api/v1/moderation/reviews/{id}/approve
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.moderation.Approve(r.Context(), callerFrom(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// Deny handles POST /api/v1/moderation/reviews/{id}/deny. The body is optional.
func (h *ModerationHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	var req DenyRequest
	if r.ContentLength != 0 {
		if !httputil.DecodeJSON(w, r, &req) {
			return
		}
		if err := validator.Validate(req); err != nil {
			httputil.WriteValidationError(w, err)
			return
		}
	}

	review, err := h.moderation.Deny(r.Context(), callerFrom(r), id, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// RequestChanges handles POST /api/v1/moderation/reviews/{id}/request-changes
func (h *ModerationHandler) RequestChanges(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	var req RequestChangesRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.moderation.RequestChanges(r.Context(), callerFrom(r), id, req.Comment)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// SetFeatured handles PUT /api/v1/moderation/reviews/{id}/featured
func (h *ModerationHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	var req SetFeaturedRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.moderation.SetFeatured(r.Context(), callerFrom(r), id, *req.Featured)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/moderation/reviews/{id}
func (h *ModerationHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}

	if err := h.reviews.DeleteAny(r.Context(), callerFrom(r), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
