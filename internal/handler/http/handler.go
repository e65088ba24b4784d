package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/httputil"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/middleware"
	"github.com/CodeMeAPixel/Portfolio-sub001/pkg/pagination"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/auth"
)

// --- Request DTOs ---
//
// Bodies never carry author, role or status. Those come from the token and
// the state machine.

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	Text        string `json:"text" validate:"required,notblank,max=5000"`
	ProjectName string `json:"project_name" validate:"max=200"`
	Company     string `json:"company" validate:"max=200"`
	Position    string `json:"position" validate:"max=200"`
	WorkDone    string `json:"work_done" validate:"max=2000"`
	Avatar      string `json:"avatar" validate:"omitempty,url,max=2048"`
}

// AddCommentRequest is the JSON request body for posting to a thread.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=5000"`
}

// DenyRequest is the optional JSON body for denying a review.
type DenyRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// RequestChangesRequest is the JSON body for requesting changes.
type RequestChangesRequest struct {
	Comment string `json:"comment" validate:"required,notblank,max=5000"`
}

// SetFeaturedRequest is the JSON body for toggling the featured flag.
type SetFeaturedRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

// callerFrom builds the caller from the identity the auth middleware stored.
func callerFrom(r *http.Request) auth.Caller {
	return auth.Caller{
		ID:   middleware.UserIDFromContext(r.Context()),
		Role: middleware.RoleFromContext(r.Context()),
	}
}

// reviewID reads the {id} path parameter and rejects anything but a UUID.
func reviewID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return "", false
	}
	return id.String(), true
}

// pageParams reads page and per_page, writing a 400 on malformed values.
func pageParams(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (pagination.Params, bool) {
	p, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, logger)
		return p, false
	}
	return p, true
}
