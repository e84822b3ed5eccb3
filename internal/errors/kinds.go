package errors

import (
	stderrors "errors"
	"fmt"
)

// Error kinds surfaced by the habit edit session and its collaborators.
// Callers match them with errors.Is; the underlying cause stays wrapped.
var (
	// ErrValidation means the edit session is not ready to be committed.
	ErrValidation = stderrors.New("habit is not ready to be saved")
	// ErrScheduling means reminder registration failed; partial registrations were rolled back.
	ErrScheduling = stderrors.New("failed to schedule reminders")
	// ErrStore means the record store could not commit; reminders from the same attempt were rolled back.
	ErrStore = stderrors.New("failed to save habit")
	// ErrDelete means a delete was attempted without a habit being edited.
	ErrDelete = stderrors.New("no habit selected for deletion")
	// ErrPermissionDenied means notifications are not permitted.
	ErrPermissionDenied = stderrors.New("notification permission denied")
	// ErrUnknownWeekday means a weekday name could not be mapped to a calendar day.
	ErrUnknownWeekday = stderrors.New("unknown weekday")
	// ErrCommitInFlight means a commit was submitted while another one is still running.
	ErrCommitInFlight = stderrors.New("a save is already in progress")
)

var kinds = []error{ErrValidation, ErrScheduling, ErrStore, ErrDelete, ErrPermissionDenied, ErrUnknownWeekday, ErrCommitInFlight}

// Wrap tags cause with kind. A nil cause yields the bare kind.
func Wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Kind returns the first known kind err matches, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if stderrors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Is and As re-export the standard helpers so callers importing this package
// under the name "errors" keep them at hand.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }
