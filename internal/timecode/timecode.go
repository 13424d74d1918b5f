// Package timecode parses human time expressions into seconds.
// Accepted shapes are "SS", "MM:SS" and "HH:MM:SS"; each colon-delimited
// component is a non-negative real number.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a time expression that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// InvalidRangeError reports a clip window whose resolved duration is not
// positive.
type InvalidRangeError struct {
	Start float64
	End   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid clip range: end (%.3fs) must be after start (%.3fs)", e.End, e.Start)
}

// Parse converts a time expression to total seconds.
func Parse(text string) (float64, error) {
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, &ParseError{Input: text, Reason: "expected ss, mm:ss or hh:mm:ss"}
	}

	vals := make([]float64, 0, 3)
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, &ParseError{Input: text, Reason: fmt.Sprintf("component %q is not a number", p)}
		}
		if v < 0 {
			return 0, &ParseError{Input: text, Reason: fmt.Sprintf("component %q is negative", p)}
		}
		vals = append(vals, v)
	}

	switch len(vals) {
	case 1:
		return vals[0], nil
	case 2:
		return vals[0]*60 + vals[1], nil
	default:
		return vals[0]*3600 + vals[1]*60 + vals[2], nil
	}
}

// Window parses both clip bounds and validates that the window has a
// positive duration. It is pure and must run before any network or
// subprocess work.
func Window(startText, endText string) (start, end float64, err error) {
	start, err = Parse(startText)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	end, err = Parse(endText)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if end <= start {
		return 0, 0, &InvalidRangeError{Start: start, End: end}
	}
	return start, end, nil
}
