package svc

// Outcome is the structured result of one administrative operation.
// Exactly one Outcome is produced per executor call; the paired
// assertion consumes it immediately afterwards.
//
// A false OK is ordinary data. The ErrorDetail carries the management
// layer's diagnostic text verbatim so a failing assertion can surface
// it without reconstructing context.
type Outcome struct {
	// OK is true iff the management layer completed the operation
	// without signaling an error.
	OK bool

	// Value holds a captured scalar (a pid, a property value) when the
	// operation was executed in capture mode. Empty in wait mode.
	Value string

	// ErrorDetail holds the management layer's diagnostic when OK is
	// false.
	ErrorDetail string
}

// Success returns a passing outcome carrying the captured value.
func Success(value string) Outcome {
	return Outcome{OK: true, Value: value}
}

// Failure returns a failing outcome carrying the diagnostic text.
func Failure(detail string) Outcome {
	return Outcome{OK: false, ErrorDetail: detail}
}
