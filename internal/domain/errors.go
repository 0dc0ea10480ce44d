package domain

import "errors"

// Domain errors
var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrAlreadyJoined     = errors.New("connection has already joined")
	ErrRosterSize        = errors.New("a table needs exactly four distinct participants")
	ErrNotSeated         = errors.New("participant is not seated at this table")
	ErrNoGame            = errors.New("participant is not in a game")
	ErrNotReady          = errors.New("table is not ready to start a round")
	ErrRoundInProgress   = errors.New("a round is already awaiting a guess")
	ErrNotAwaitingGuess  = errors.New("no round is awaiting a guess")
	ErrNotGuesser        = errors.New("only the current guesser may guess")
	ErrInvalidTarget     = errors.New("guess target is not a suspect")
	ErrRoleHolderMissing = errors.New("expected role holder missing from assignment")
	ErrUnknownPolicy     = errors.New("unknown scoring policy")
	ErrTableNotFound     = errors.New("table not found")
)
