package synthesis

import "fmt"

// DataError reports input data that cannot be used for a calculation,
// such as a conversion rate of zero.
type DataError struct {
	// Field names the offending input.
	Field string
	// Value is the rejected value.
	Value float64
	// Reason describes why the value was rejected.
	Reason string
}

// Error implements the error interface.
func (e *DataError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
