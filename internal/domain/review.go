package domain

import (
	"encoding/json"
	"time"
)

// Status is the moderation state of a review.
type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusDenied           Status = "denied"
	StatusChangesRequested Status = "changes_requested"
)

// ValidStatuses returns every status a review can be in.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusDenied, StatusChangesRequested}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a submitted testimonial and its moderation state.
type Review struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Rating       int       `json:"rating"`
	Text         string    `json:"text"`
	ProjectName  string    `json:"project_name,omitempty"`
	Company      string    `json:"company,omitempty"`
	Position     string    `json:"position,omitempty"`
	WorkDone     string    `json:"work_done,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Status       Status    `json:"status"`
	DenialReason string    `json:"denial_reason,omitempty"`
	Featured     bool      `json:"featured"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID submitted the review.
func (r *Review) IsOwnedBy(userID string) bool {
	return userID != "" && r.AuthorID == userID
}

// MarshalJSON drops the stored denial reason unless the review is currently
// denied. The column keeps its value after a later approval.
func (r Review) MarshalJSON() ([]byte, error) {
	type view Review
	v := view(r)
	if v.Status != StatusDenied {
		v.DenialReason = ""
	}
	return json.Marshal(v)
}
