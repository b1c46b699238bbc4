package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sample is a single (timestamp, value) pair read from a trace.
// For receive traces Time is in seconds and Value is the packet size in bytes.
type Sample struct {
	Time  float64
	Value int64
}

// Reader reads samples from a line-delimited trace, one sample per line.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next sample, or io.EOF once the input is exhausted.
// A malformed line is reported with its 1-based line number and ends the read.
func (r *Reader) Next() (Sample, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Sample{}, err
		}
		return Sample{}, io.EOF
	}
	r.line++

	s, err := ParseLine(r.scanner.Text())
	if err != nil {
		return Sample{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return s, nil
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// ParseLine parses "<timestamp> <value>".
func ParseLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Sample{}, fmt.Errorf("%w: got %d", ErrMalformedLine, len(fields))
	}

	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, fields[0])
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %q", ErrInvalidValue, fields[1])
	}

	return Sample{Time: t, Value: v}, nil
}

// FormatLine renders s in the tab-separated form ns-3 receive traces use.
func FormatLine(s Sample) string {
	return strconv.FormatFloat(s.Time, 'g', -1, 64) + "\t" + strconv.FormatInt(s.Value, 10) + "\n"
}
