package controller

// opError wraps a board failure with what the loop was doing.
// It formats without fmt so the firmware image stays small.
type opError struct {
	// op describes the failed step, e.g. "select digit PB1".
	op string
	// err is the underlying failure.
	err error
}

// wrap annotates err with op.
func wrap(op string, err error) error {
	return &opError{op: op, err: err}
}

// Error returns "op: cause".
func (e *opError) Error() string {
	return e.op + ": " + e.err.Error()
}

// Unwrap returns the underlying failure.
func (e *opError) Unwrap() error {
	return e.err
}
