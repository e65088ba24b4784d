package domain

import "time"

// AuthorRole records in which capacity a comment was written. It is derived
// when the comment is appended and never recomputed.
type AuthorRole string

const (
	AuthorRoleModerator AuthorRole = "moderator"
	AuthorRoleSubmitter AuthorRole = "submitter"
)

// Comment is one entry of a review's feedback thread. Threads are
// append-only and ordered by (CreatedAt, ID).
type Comment struct {
	ID         string     `json:"id"`
	ReviewID   string     `json:"review_id"`
	AuthorID   string     `json:"author_id"`
	AuthorRole AuthorRole `json:"author_role"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
}
