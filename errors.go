package hashdict

import "github.com/pkg/errors"

// Errors reported by construction, insertion and lookup. JSON codec
// errors and sink write errors are returned to the caller as-is.
var (
	// ErrArguments indicates constructor arguments that do not form
	// any recognized key-value shape.
	ErrArguments = errors.New("hashdict: odd or mismatched key-value arguments")

	// ErrUnhashableKey indicates an insertion with a key that is
	// neither hashable nor a coercible mapping.
	ErrUnhashableKey = errors.New("hashdict: key is not hashable")

	// ErrUnhashableValue indicates an insertion with a value that is
	// neither hashable nor a coercible mapping.
	ErrUnhashableValue = errors.New("hashdict: value is not hashable")

	// ErrKeyNotFound indicates a lookup of an absent key on a Dict
	// that has no factory.
	ErrKeyNotFound = errors.New("hashdict: key not found")
)
