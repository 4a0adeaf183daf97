package neargo

import (
	"errors"
)

var (
	// ErrLoadFailed wraps every fatal load failure: open, read, close, or
	// decompression errors. Unresolvable labels never produce this error;
	// they are advisory warnings.
	ErrLoadFailed = errors.New("loading of external neighborhood failed")
)
