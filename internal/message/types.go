package message

import (
	"errors"

	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

var (
	ErrJSONUnmarshalFailed = errors.New("failed to unmarshal trace message")
	ErrMissingField        = errors.New("trace message is missing a required field")
)

// SampleMessage is the JSON form of a trace sample on the wire.
// Pointers distinguish an absent field from a zero value.
type SampleMessage struct {
	Time *float64 `json:"time"`
	Size *int64   `json:"size"`
}

// NewSampleMessage wraps s for encoding.
func NewSampleMessage(s trace.Sample) SampleMessage {
	t, v := s.Time, s.Value
	return SampleMessage{Time: &t, Size: &v}
}

// Sample converts the message back into a trace sample.
func (m SampleMessage) Sample() (trace.Sample, error) {
	switch {
	case m.Time == nil:
		return trace.Sample{}, errors.Join(ErrMissingField, errors.New("time"))
	case m.Size == nil:
		return trace.Sample{}, errors.Join(ErrMissingField, errors.New("size"))
	}
	return trace.Sample{Time: *m.Time, Value: *m.Size}, nil
}
