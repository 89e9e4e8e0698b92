package consensus

import "errors"

var (
	// ErrNoVotes indicates a tally or tier lookup was attempted without any votes.
	ErrNoVotes = errors.New("no votes")
	// ErrEmptyResults indicates a summary was requested over zero verdicts.
	ErrEmptyResults = errors.New("empty result set")
	// ErrInvalidQuorum indicates a proposal quorum below one.
	ErrInvalidQuorum = errors.New("invalid proposal quorum")
	// ErrInvalidPanel indicates an empty panel or one with blank or duplicate members.
	ErrInvalidPanel = errors.New("invalid panel")
)
