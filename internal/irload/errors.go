package irload

import (
	"errors"
	"fmt"
)

// Load error codes.
const (
	ErrCodeRead    = "L001" // file could not be read
	ErrCodeParse   = "L002" // malformed YAML or CUE
	ErrCodeSchema  = "L003" // document does not match the schema
	ErrCodeResolve = "L004" // unknown or duplicate value/block name
)

// LoadError is returned by every loader entry point.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Code extracts the load error code from err, or "" if err is not a
// LoadError.
func Code(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
