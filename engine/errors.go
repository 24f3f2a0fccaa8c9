package engine

import "errors"

// Sentinel errors returned by the engine. Handlers map them onto HTTP
// statuses: not-found -> 404, the rest of the business errors -> 400,
// anything else -> 500 with no partial state committed.
var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrNotJoined: the user never joined the campaign this task belongs to.
	ErrNotJoined = errors.New("join the campaign first")

	// ErrAlreadyCompleted: terminal-state re-entry. The caller must see that
	// no new reward was granted, so this is a hard rejection, not a no-op.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrProofPending: a proof is already awaiting review for this task.
	ErrProofPending = errors.New("proof already submitted and pending review")

	// ErrProofRequired: the task is proof-gated and cannot be completed directly.
	ErrProofRequired = errors.New("task requires proof submission")

	// ErrProofNotPending: approve/reject called on a task with no pending proof.
	ErrProofNotPending = errors.New("no pending proof for this task")
)

// IsNotFound reports whether err is one of the missing-entity errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsBusiness reports whether err is an eligibility or state-transition
// rejection rather than a system failure.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotJoined) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrProofPending) ||
		errors.Is(err, ErrProofRequired) ||
		errors.Is(err, ErrProofNotPending)
}
