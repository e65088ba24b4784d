package domain

import "fmt"

// Command is a moderation action that changes a review's status.
type Command string

const (
	CommandApprove        Command = "approve"
	CommandDeny           Command = "deny"
	CommandRequestChanges Command = "request_changes"
)

// Effect is the side effect a transition carries besides the status change.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSetDenialReason overwrites the stored denial reason.
	EffectSetDenialReason
	// EffectAppendModeratorComment appends the moderator's message to the
	// thread in the same atomic unit as the status change.
	EffectAppendModeratorComment
)

func (e Effect) String() string {
	switch e {
	case EffectSetDenialReason:
		return "set_denial_reason"
	case EffectAppendModeratorComment:
		return "append_moderator_comment"
	default:
		return "none"
	}
}

type transition struct {
	to     Status
	effect Effect
}

// transitions is the complete state machine. Every status accepts every
// command, nothing leads back to pending, and repeating a command is a no-op
// apart from its effect.
var transitions = map[Status]map[Command]transition{
	StatusPending: {
		CommandApprove:        {StatusApproved, EffectNone},
		CommandDeny:           {StatusDenied, EffectSetDenialReason},
		CommandRequestChanges: {StatusChangesRequested, EffectAppendModeratorComment},
	},
	StatusApproved: {
		CommandApprove:        {StatusApproved, EffectNone},
		CommandDeny:           {StatusDenied, EffectSetDenialReason},
		CommandRequestChanges: {StatusChangesRequested, EffectAppendModeratorComment},
	},
	StatusDenied: {
		CommandApprove:        {StatusApproved, EffectNone},
		CommandDeny:           {StatusDenied, EffectSetDenialReason},
		CommandRequestChanges: {StatusChangesRequested, EffectAppendModeratorComment},
	},
	StatusChangesRequested: {
		CommandApprove:        {StatusApproved, EffectNone},
		CommandDeny:           {StatusDenied, EffectSetDenialReason},
		CommandRequestChanges: {StatusChangesRequested, EffectAppendModeratorComment},
	},
}

// Transition looks up the status that cmd leads to from the given status.
func Transition(from Status, cmd Command) (Status, Effect, error) {
	row, ok := transitions[from]
	if !ok {
		return "", EffectNone, fmt.Errorf("unknown review status %q", from)
	}
	t, ok := row[cmd]
	if !ok {
		return "", EffectNone, fmt.Errorf("command %q not allowed from status %q", cmd, from)
	}
	return t.to, t.effect, nil
}
