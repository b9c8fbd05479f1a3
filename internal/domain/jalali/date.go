// Package jalali normalises the Jalali (Solar Hijri) date strings that
// operators type into formulation sheets and plan forms.
//
// Dates are kept as strings end to end; no calendar arithmetic is done.
package jalali

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	anyDate   = regexp.MustCompile(`^(\d{2,4})[./-](\d{1,2})[./-](\d{1,2})$`)
	shortDate = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2})`)

	digits = strings.NewReplacer(
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	)
)

// Unknown is used in file names when no date could be determined.
const Unknown = "00.00.00"

func parts(s string) (yyyy, mm, dd string, ok bool) {
	m := anyDate.FindStringSubmatch(s)
	if m == nil {
		return "", "", "", false
	}
	y := m[1]
	switch len(y) {
	case 2:
		y = "14" + y
	case 3:
		y = "1" + y
	}
	return y, pad2(m[2]), pad2(m[3]), true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func clean(s string) string {
	return digits.Replace(strings.TrimSpace(s))
}

// Full returns the yyyy/mm/dd form. Two digit years belong to the 14xx
// century. Unrecognised input is returned trimmed.
func Full(s string) string {
	s = clean(s)
	y, m, d, ok := parts(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%s/%s/%s", y, m, d)
}

// Short returns the YY.MM.DD form used in file names, or "" when s is empty.
func Short(s string) string {
	s = clean(s)
	if s == "" {
		return ""
	}
	if y, m, d, ok := parts(s); ok {
		return fmt.Sprintf("%s.%s.%s", y[len(y)-2:], m, d)
	}
	if m := shortDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3])
	}
	return strings.NewReplacer("/", ".", "-", ".").Replace(s)
}

// ShortOrUnknown is Short with the Unknown placeholder for empty results.
func ShortOrUnknown(s string) string {
	if v := Short(s); v != "" {
		return v
	}
	return Unknown
}

// Valid reports whether s is a recognisable date.
func Valid(s string) bool {
	_, _, _, ok := parts(clean(s))
	return ok
}

// Folder returns the directory name for a date: the full form with
// slashes replaced by dashes.
func Folder(s string) string {
	return strings.ReplaceAll(Full(s), "/", "-")
}
