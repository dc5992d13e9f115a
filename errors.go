package bincursor

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("bincursor: invalid range")
	ErrIllegalBounds = errors.New("bincursor: illegal bounds")
	ErrClosed        = errors.New("bincursor: closed")
	ErrOutOfBounds   = errors.New("bincursor: out of bounds")
	ErrShortRead     = errors.New("bincursor: short read")
	ErrEndOfInput    = errors.New("bincursor: end of input")
	ErrInvalidWidth  = errors.New("bincursor: invalid width")
	ErrLimitExceeded = errors.New("bincursor: limit exceeded")
	ErrUnsupported   = errors.New("bincursor: unsupported store")
)

// Attr is one key/value line of an [Error].
type Attr struct {
	Key   string
	Value string
}

// Error is the structured diagnostic returned for bounds, closed-state and
// short-read failures. Kind is one of the package sentinel errors; Err, when
// set, is the underlying cause.
type Error struct {
	Kind    error
	Message string
	Attrs   []Attr
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	width := 0
	for _, a := range e.Attrs {
		if len(a.Key) > width {
			width = len(a.Key)
		}
	}
	for _, a := range e.Attrs {
		b.WriteString("\n  ")
		b.WriteString(a.Key)
		b.WriteString(strings.Repeat(" ", width-len(a.Key)))
		b.WriteString(" : ")
		b.WriteString(a.Value)
	}
	if e.Err != nil {
		b.WriteString("\n  ")
		b.WriteString("Cause")
		if width > len("Cause") {
			b.WriteString(strings.Repeat(" ", width-len("Cause")))
		}
		b.WriteString(" : ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Attr returns the value of the attribute named key.
func (e *Error) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// newError builds an Error whose attributes are sorted by key.
func newError(kind error, msg string, attrs map[string]string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Attrs: sortedAttrs(attrs), Err: cause}
}

func sortedAttrs(attrs map[string]string) []Attr {
	out := make([]Attr, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, Attr{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
