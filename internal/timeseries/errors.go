package timeseries

// InvariantError reports caller misuse: window bounds without timezone
// information, or naive input without a source timezone to anchor it.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "timeseries: " + e.Reason
}

// GridConstructionError reports a target grid that cannot exist: an
// unparsable or non-positive frequency, or inverted bounds.
type GridConstructionError struct {
	Reason string
	Err    error
}

func (e *GridConstructionError) Error() string {
	if e.Err != nil {
		return "timeseries: " + e.Reason + ": " + e.Err.Error()
	}
	return "timeseries: " + e.Reason
}

func (e *GridConstructionError) Unwrap() error {
	return e.Err
}
