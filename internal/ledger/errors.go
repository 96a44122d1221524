package ledger

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger. Every failing operation returns an error
// that matches exactly one of these with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateName       = errors.New("name already taken")
	ErrInvalidName         = errors.New("name must not be empty")
	ErrSessionEnded        = errors.New("session has ended")
	ErrAlreadyMember       = errors.New("player is already a member of the session")
	ErrInvalidParticipants = errors.New("invalid participants")
	ErrInvalidPoints       = errors.New("invalid points")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrStorage             = errors.New("storage failure")
)

// Refinements of the kinds above.
var (
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrRecordNotFound  = fmt.Errorf("record %w", ErrNotFound)
	ErrPlayerNotMember = fmt.Errorf("%w: player is not a member of the session", ErrInvalidParticipants)
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
