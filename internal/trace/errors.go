package trace

import "errors"

var (
	ErrMalformedLine    = errors.New("trace line must contain exactly two fields")
	ErrInvalidTimestamp = errors.New("trace timestamp is not a number")
	ErrInvalidValue     = errors.New("trace value is not an integer")
)
