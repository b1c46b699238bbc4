package plot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMalformedRecord = errors.New("record must contain exactly one ';' separator")
	ErrInvalidNumber   = errors.New("record field is not a number")
)

// Point is one parsed output record.
type Point struct {
	Time  float64
	Value float64
}

// ReadSeries parses "<time>; <value>" lines as written by window.Writer.
func ReadSeries(r io.Reader) ([]Point, error) {
	var (
		points []Point
		line   int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		p, err := parseRecord(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func parseRecord(text string) (Point, error) {
	fields := strings.Split(text, ";")
	if len(fields) != 2 {
		return Point{}, ErrMalformedRecord
	}

	var vals [2]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Point{}, fmt.Errorf("%w: %q", ErrInvalidNumber, f)
		}
		vals[i] = v
	}
	return Point{Time: vals[0], Value: vals[1]}, nil
}
