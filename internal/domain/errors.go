package domain

// Error is the kind of failure an operation reports. Callers match kinds with errors.Is;
// the wrapped cause stays available through the chain.
type Error string

func (e Error) Error() string {
	return string(e)
}

var (
	ErrStorage         = Error("storage error")        // local persistence open/read/write failure
	ErrConfiguration   = Error("remote backend not configured")
	ErrInvalidArgument = Error("invalid argument")
	ErrNotFound        = Error("not found")
	ErrEncoding        = Error("encoding error")
	ErrDecoding        = Error("decoding error")
	ErrNetwork         = Error("network error")
	ErrUnauthorized    = Error("unauthorized")
)

// kindError attaches a kind to an underlying cause.
type kindError struct {
	kind  Error
	cause error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// Wrap tags cause with kind. A nil cause yields nil.
func Wrap(kind Error, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: cause}
}
