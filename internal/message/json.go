package message

import (
	"encoding/json"
	"fmt"

	"github.com/sanspareilsmyn/tracelens/internal/trace"
)

// ParseSampleJSON decodes one JSON trace message.
// It returns ErrJSONUnmarshalFailed (wrapping the original error) if unmarshalling fails.
func ParseSampleJSON(data []byte) (trace.Sample, error) {
	var msg SampleMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return trace.Sample{}, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	return msg.Sample()
}

// EncodeSampleJSON encodes s as a JSON trace message.
func EncodeSampleJSON(s trace.Sample) ([]byte, error) {
	return json.Marshal(NewSampleMessage(s))
}
