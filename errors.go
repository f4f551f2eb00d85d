package goshape

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeInvalidUnion = "invalid_union"
	CodeParseError   = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected shape, remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"string", "got":"bool"})
	// for i18n and observability.
	Params map[string]any
	// Variants holds the issues of every union variant, in declaration order,
	// when Code is CodeInvalidUnion. Their paths are absolute.
	Variants []Issues
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if len(it.Variants) > 0 {
			fmt.Fprintf(b, " (%d variants)", len(it.Variants))
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrMalformedDescriptor is wrapped by every DescriptorError. It signals a bad
// schema, never bad data.
var ErrMalformedDescriptor = errors.New("goshape: malformed descriptor")

// DescriptorError reports a descriptor that cannot be turned into a decoder,
// such as an empty union or a nil inner descriptor.
type DescriptorError struct {
	Path   string // location inside the descriptor tree, as a JSON Pointer.
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("goshape: malformed descriptor at %s: %s", e.Path, e.Reason)
}

func (e *DescriptorError) Unwrap() error { return ErrMalformedDescriptor }
