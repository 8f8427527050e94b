package joinery

import "errors"

// Sentinel errors returned by the merge and decoding functions.
// Merging itself cannot fail for any combination of spec shapes; errors
// only signal caller contract violations or malformed encoded input.
var (
	// ErrInvalidArgument is returned when an addition path contains a blank
	// relation name. The base spec is never modified when this is returned.
	ErrInvalidArgument = errors.New("joinery: invalid argument")

	// ErrMalformedSpec is returned when encoded input does not describe a
	// spec: scalars other than strings, blank keys, or unsupported nodes.
	ErrMalformedSpec = errors.New("joinery: malformed spec")
)

// IsInvalidArgumentErr returns true if err is or wraps ErrInvalidArgument.
func IsInvalidArgumentErr(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsMalformedSpecErr returns true if err is or wraps ErrMalformedSpec.
func IsMalformedSpecErr(err error) bool {
	return errors.Is(err, ErrMalformedSpec)
}
