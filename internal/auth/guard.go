package auth

import (
	apperrors "github.com/CodeMeAPixel/Portfolio-sub001/pkg/errors"

	"github.com/CodeMeAPixel/Portfolio-sub001/internal/domain"
)

// RoleModerator is the token role that grants moderation capability.
const RoleModerator = "moderator"

// Caller identifies who is performing an operation. It is passed explicitly
// to every service call.
type Caller struct {
	ID   string
	Role string
}

// IsModerator reports whether the caller holds the moderator capability.
func (c Caller) IsModerator() bool {
	return c.Role == RoleModerator
}

// Action is something a caller may attempt on a review.
type Action int

const (
	ActionSubmit Action = iota
	ActionRead
	ActionComment
	ActionModerate
	ActionDelete
	ActionListAll
)

var actionNames = map[Action]string{
	ActionSubmit:   "submit",
	ActionRead:     "read",
	ActionComment:  "comment",
	ActionModerate: "moderate",
	ActionDelete:   "delete",
	ActionListAll:  "list all",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Authorize decides whether caller may perform action on review. review may
// be nil for ActionSubmit and ActionListAll. A denial wraps
// apperrors.ErrForbidden; an anonymous caller gets ErrUnauthorized.
func Authorize(caller Caller, action Action, review *domain.Review) error {
	if err := RequireIdentity(caller); err != nil {
		return err
	}

	switch action {
	case ActionSubmit:
		return nil
	case ActionModerate, ActionListAll:
		if caller.IsModerator() {
			return nil
		}
		return apperrors.Forbidden("moderator role required to " + action.String() + " reviews")
	case ActionRead, ActionComment, ActionDelete:
		if caller.IsModerator() || (review != nil && review.IsOwnedBy(caller.ID)) {
			return nil
		}
		return apperrors.Forbidden("not allowed to " + action.String() + " this review")
	default:
		return apperrors.Forbidden("unknown action")
	}
}

// RequireIdentity rejects anonymous callers.
func RequireIdentity(caller Caller) error {
	if caller.ID == "" {
		return apperrors.Unauthorized("caller identity is required")
	}
	return nil
}

// CommentRole derives the role a new comment is recorded under. Moderators
// always write as moderator, even on a review they submitted themselves.
func CommentRole(caller Caller, review *domain.Review) domain.AuthorRole {
	if caller.IsModerator() {
		return domain.AuthorRoleModerator
	}
	return domain.AuthorRoleSubmitter
}
