package ledger

import "errors"

var (
	ErrEmptyRange          = errors.New("closure range is empty")
	ErrInvalidRange        = errors.New("closure range start must be before its end")
	ErrUnknownClosureType  = errors.New("unknown closure type")
	ErrNoEligibleContracts = errors.New("no open contracts in closure range")
)
