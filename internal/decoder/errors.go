package decoder

import "fmt"

// ErrorKind classifies decode failures so the host can surface the right
// user-facing diagnostic.
type ErrorKind int

const (
	// Header or structure inconsistent with the expected layout
	KindMalformed ErrorKind = iota
	// A declared section length exceeds the remaining buffer
	KindTruncated
	// Format discriminator or version tag not recognized
	KindUnsupportedVariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindTruncated:
		return "truncated"
	case KindUnsupportedVariant:
		return "unsupported variant"
	}
	return "unknown"
}

// Error is the typed failure returned by every decode and deserialization
// entry point. Errors never leave partially constructed meshes behind.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode: %s: %s", e.Kind, e.Msg)
}

// Is matches any *Error of the same kind, so callers can test against the
// exported sentinels with errors.Is regardless of the diagnostic text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMalformed          = &Error{Kind: KindMalformed, Msg: "malformed input"}
	ErrTruncated          = &Error{Kind: KindTruncated, Msg: "truncated input"}
	ErrUnsupportedVariant = &Error{Kind: KindUnsupportedVariant, Msg: "unsupported variant"}
)

func malformedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformed, Msg: fmt.Sprintf(format, args...)}
}

func truncatedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindTruncated, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupportedVariant, Msg: fmt.Sprintf(format, args...)}
}
