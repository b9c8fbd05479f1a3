package versioning

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
)

// SanitizeTag uppercases s and keeps only A-Z and 0-9.
func SanitizeTag(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Prefix derives the file name prefix from a subproject code: "302-F"
// becomes "302F".
func Prefix(subCode string) string {
	s := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, subCode)
	return SanitizeTag(s)
}

// HeaderCode is the printed document code, e.g. "302F- RMC03".
func HeaderCode(prefix string, t DocType, seq string) string {
	if prefix == "" {
		return fmt.Sprintf("%s%s", t, seq)
	}
	return fmt.Sprintf("%s- %s%s", prefix, t, seq)
}

// FileName builds "<prefix>- <TYPE><seq> <YY.MM.DD>.xlsx". date may be
// in any form jalali.Short understands.
func FileName(prefix string, t DocType, seq, date string) string {
	return fmt.Sprintf("%s %s.xlsx", HeaderCode(prefix, t, seq), jalali.ShortOrUnknown(date))
}
