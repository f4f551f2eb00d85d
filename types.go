package goshape

// UnknownPolicy controls how keys that a struct or partial descriptor does not
// declare are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Tolerate unknown keys and drop them from the result.
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Tolerate unknown keys and keep them in the result.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownPassthrough:
		return "passthrough"
	default:
		return "strip"
	}
}

// ParseUnknownPolicy maps "strip", "strict" and "passthrough" to a policy.
func ParseUnknownPolicy(s string) (UnknownPolicy, bool) {
	switch s {
	case "", "strip":
		return UnknownStrip, true
	case "strict":
		return UnknownStrict, true
	case "passthrough":
		return UnknownPassthrough, true
	default:
		return UnknownStrip, false
	}
}
