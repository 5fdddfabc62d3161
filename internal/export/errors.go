package export

import "fmt"

// SerializationError indicates a projection could not be encoded in the
// requested output format.
type SerializationError struct {
	Format string
	Err    error
}

func (e SerializationError) Error() string {
	return fmt.Sprintf("cannot encode %s output: %v", e.Format, e.Err)
}

func (e SerializationError) Unwrap() error { return e.Err }
