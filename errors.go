package diffchunk

import "errors"

var (
	// ErrUndecodable is returned when none of the encoding candidates for a
	// side could decode its content.
	ErrUndecodable = errors.New("content could not be decoded with any candidate encoding")

	// ErrInvalidOpcodes is returned by ValidateOpcodes.
	ErrInvalidOpcodes = errors.New("invalid opcodes")

	// ErrNoChanges is returned when there is nothing to diff.
	ErrNoChanges = errors.New("no changes")
)
