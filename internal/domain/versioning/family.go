package versioning

import (
	"fmt"
	"regexp"
	"strconv"
)

// Family is the ordered set of file name patterns recognised for one
// document type. Patterns are tried most specific first.
type Family struct {
	Type   DocType
	Legacy string

	tagged  *regexp.Regexp
	legacy  *regexp.Regexp
	generic *regexp.Regexp
}

// NewFamily compiles the patterns for t. legacy is the older type
// keyword (SCF, SFF) still found in archives; it may be empty.
func NewFamily(t DocType, legacy string) *Family {
	f := &Family{Type: t, Legacy: legacy}
	// "302C- SF01 04.10.05.xlsx"
	f.tagged = regexp.MustCompile(fmt.Sprintf(`(?i)^([A-Za-z0-9]+)-\s*%s0*([0-9]+)\b`, regexp.QuoteMeta(string(t))))
	words := regexp.QuoteMeta(string(t))
	if legacy != "" {
		// "301-01 SCF 1404.09.18.xlsx"
		f.legacy = regexp.MustCompile(fmt.Sprintf(`(?i)^(\d+)-(\d+)\s+%s\b`, regexp.QuoteMeta(legacy)))
		words = regexp.QuoteMeta(legacy) + "|" + words
	}
	// "... SCF 01 ..."
	f.generic = regexp.MustCompile(fmt.Sprintf(`(?i)\b(?:%s)\s*0*([0-9]+)\b`, words))
	return f
}

var (
	FamilySCF = NewFamily(DocSF, "SCF")
	FamilySFF = NewFamily(DocSF, "SFF")
	FamilyRMC = NewFamily(DocRMC, "")
	FamilyRMF = NewFamily(DocRMF, "")
	FamilyRMR = NewFamily(DocRMR, "")
)

// FamilyFor returns the family of an output document type. Source
// formulations need SourceFamily because their legacy keyword depends
// on the subproject kind.
func FamilyFor(t DocType) (*Family, error) {
	switch t {
	case DocRMC:
		return FamilyRMC, nil
	case DocRMF:
		return FamilyRMF, nil
	case DocRMR:
		return FamilyRMR, nil
	case DocSF:
		return FamilySCF, nil
	}
	return nil, fmt.Errorf("versioning: no pattern family for %q", t)
}

// SourceFamily picks the source family from the folder name (SCF or SFF).
func SourceFamily(folder string) *Family {
	if folder == "SFF" {
		return FamilySFF
	}
	return FamilySCF
}

// Match is a parsed file name.
type Match struct {
	Tag      string // empty for untagged patterns
	Sequence int
	Tagged   bool
}

// Match parses name with the first pattern that fits.
func (f *Family) Match(name string) (Match, bool) {
	if m := f.tagged.FindStringSubmatch(name); m != nil {
		return Match{Tag: SanitizeTag(m[1]), Sequence: atoi(m[2]), Tagged: true}, true
	}
	if f.legacy != nil {
		if m := f.legacy.FindStringSubmatch(name); m != nil {
			return Match{Sequence: atoi(m[2])}, true
		}
	}
	if m := f.generic.FindStringSubmatch(name); m != nil {
		return Match{Sequence: atoi(m[1])}, true
	}
	return Match{}, false
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
