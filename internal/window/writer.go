package window

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	labelResolution = 1e9
	aggregateDigits = 16
)

// Writer emits records as "<label>; <aggregate>\n" lines.
type Writer struct {
	w       *bufio.Writer
	written int
}

// NewWriter returns a buffered Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one record line.
func (w *Writer) Write(rec Record) error {
	if _, err := w.w.WriteString(FormatRecord(rec)); err != nil {
		return err
	}
	w.written++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Written returns the number of records written.
func (w *Writer) Written() int {
	return w.written
}

// FormatRecord renders rec as one output line including the newline.
func FormatRecord(rec Record) string {
	return formatLabel(rec.Label) + "; " + formatAggregate(rec.Aggregate) + "\n"
}

// formatLabel rounds away the float drift of "time - 0.1" at nanosecond
// resolution, then prints the shortest representation.
func formatLabel(v float64) string {
	rounded := math.Round(v*labelResolution) / labelResolution
	return withFraction(strconv.FormatFloat(rounded, 'f', -1, 64))
}

func formatAggregate(v float64) string {
	s := strconv.FormatFloat(v, 'f', aggregateDigits, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
	}
	return withFraction(s)
}

func withFraction(s string) string {
	switch {
	case strings.HasSuffix(s, "."):
		return s + "0"
	case strings.ContainsAny(s, ".eEnN"): // NaN and Inf pass through
		return s
	default:
		return s + ".0"
	}
}
