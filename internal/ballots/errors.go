package ballots

import "errors"

var (
	// ErrMissingColumn indicates a required CSV header was not found.
	ErrMissingColumn = errors.New("missing column")
	// ErrConflictingVote indicates a source labeled the same item twice with different labels.
	ErrConflictingVote = errors.New("conflicting vote")
	// ErrMalformedProposal indicates a proposal document holds something other than strings.
	ErrMalformedProposal = errors.New("malformed proposal")
)
