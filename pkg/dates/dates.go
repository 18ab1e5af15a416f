// Package dates parses the free-form date and term-duration strings found in
// license agreements and computes contract termination dates from them.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// ISO is the canonical wire format for dates in the notification ledger.
const ISO = "2006-01-02"

// dateFormats is the fixed, ordered list of accepted date layouts. Order
// matters: ambiguous numeric strings like "03/04/2024" resolve to whichever
// layout matches first, so MM/DD/YYYY wins over DD/MM/YYYY.
var dateFormats = []string{
	"2006-01-02",      // YYYY-MM-DD
	"01/02/2006",      // MM/DD/YYYY
	"02/01/2006",      // DD/MM/YYYY
	"January 2, 2006", // Month DD, YYYY
	"2 January 2006",  // DD Month YYYY
}

// ParseDate parses a flexible date string by trying each supported layout in
// order and returning the first successful parse.
func ParseDate(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, nil
		}
	}
	return time.Time{}, &DateFormatError{Input: text}
}

// ComputeTermination resolves a term-duration string against an effective
// date. The duration text is lower-cased and matched against unit keywords in
// fixed priority: "year", then "month", then "day", then "until <date>".
// Anything else fails with DurationFormatError.
//
// Year and month arithmetic keep the source day-of-month; when that day does
// not exist in the target month (e.g. Jan 31 + 1 month) the result is clamped
// to the last valid day of that month.
func ComputeTermination(effective time.Time, termDuration string) (time.Time, error) {
	term := strings.ToLower(strings.TrimSpace(termDuration))

	switch {
	case strings.Contains(term, "year"):
		n, err := leadingInt(term)
		if err != nil {
			return time.Time{}, &DurationFormatError{Input: termDuration}
		}
		return addMonths(effective, 12*n), nil

	case strings.Contains(term, "month"):
		n, err := leadingInt(term)
		if err != nil {
			return time.Time{}, &DurationFormatError{Input: termDuration}
		}
		return addMonths(effective, n), nil

	case strings.Contains(term, "day"):
		n, err := leadingInt(term)
		if err != nil {
			return time.Time{}, &DurationFormatError{Input: termDuration}
		}
		return effective.AddDate(0, 0, n), nil

	case strings.Contains(term, "until"):
		// Slice the date literal out of the original-case text: month-name
		// layouts are case-sensitive.
		idx := strings.Index(strings.ToLower(termDuration), "until")
		datePart := termDuration[idx+len("until"):]
		d, err := ParseDate(datePart)
		if err != nil {
			return time.Time{}, &DurationFormatError{Input: termDuration}
		}
		return d, nil
	}

	return time.Time{}, &DurationFormatError{Input: termDuration}
}

// leadingInt extracts the leading integer token of a duration string
// (e.g. "12" from "12 months").
func leadingInt(term string) (int, error) {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(fields[0])
}

// addMonths adds n calendar months with explicit year carry, clamping the
// day-of-month to the last valid day of the target month. time.AddDate is
// deliberately not used here: it normalizes Jan 31 + 1 month to Mar 2/3
// instead of holding the result inside February.
func addMonths(d time.Time, n int) time.Time {
	newMonth := int(d.Month()) + n
	carry := (newMonth - 1) / 12
	finalMonth := (newMonth-1)%12 + 1

	year := d.Year() + carry
	day := d.Day()
	if last := daysIn(year, time.Month(finalMonth)); day > last {
		day = last
	}
	return time.Date(year, time.Month(finalMonth), day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
