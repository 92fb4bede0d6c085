package exovel

import "fmt"

// ConfigurationError signals an unusable query specification: unknown table,
// unknown column, empty column list, or a bad option value. Aborts the run.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Detail)
}

// TransportError signals a failed exchange with the TAP service: connection
// failure, non-2xx status, a service-reported query error, or a response
// body that could not be parsed. Aborts the run.
type TransportError struct {
	StatusCode int
	Snippet    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := "transport error"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: http status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Snippet != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Snippet)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DataValidationError describes why a single result row is unusable for the
// velocity computation. It is recorded on the Record, never returned from
// the pipeline: partial datasets are expected from the archive.
type DataValidationError struct {
	Planet string
	Reason string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("invalid row for %q: %s", e.Planet, e.Reason)
}
