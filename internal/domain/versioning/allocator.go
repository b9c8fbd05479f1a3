package versioning

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// NextSequence returns max+1 over the sequences found in listing for
// scopeTag, zero padded to two digits. Tagged names of other scopes are
// ignored; untagged names always count. An empty listing gives "01".
//
// The number is not reserved: callers serialise allocate and write.
func NextSequence(listing []string, scopeTag string, family *Family) string {
	return Pad(MaxSequence(listing, scopeTag, family) + 1)
}

// MaxSequence is the highest sequence in scope, 0 when none.
func MaxSequence(listing []string, scopeTag string, family *Family) int {
	scope := SanitizeTag(scopeTag)
	max := 0
	for _, entry := range listing {
		name := path.Base(entry)
		if !isSheet(name) {
			continue
		}
		m, ok := family.Match(name)
		if !ok {
			continue
		}
		if m.Tagged && scope != "" && m.Tag != scope {
			continue
		}
		if m.Sequence > max {
			max = m.Sequence
		}
	}
	return max
}

// Pad formats a sequence with at least two digits.
func Pad(seq int) string {
	return fmt.Sprintf("%02d", seq)
}

func isSheet(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xlsx")
}

// SourceFile is a formulation file found in a subproject folder.
type SourceFile struct {
	Name     string
	Tag      string
	Sequence int
}

// ParseSource reads the SF version of a formulation file name with
// either source family.
func ParseSource(name string) (SourceFile, bool) {
	name = path.Base(name)
	for _, fam := range []*Family{FamilySCF, FamilySFF} {
		if m, ok := fam.Match(name); ok {
			return SourceFile{Name: name, Tag: m.Tag, Sequence: m.Sequence}, true
		}
	}
	return SourceFile{}, false
}

// SourceFiles lists the spreadsheet entries of a source folder, newest
// version first. Unversioned files come last.
func SourceFiles(listing []string, family *Family) []SourceFile {
	out := make([]SourceFile, 0, len(listing))
	for _, entry := range listing {
		name := path.Base(entry)
		if !isSheet(name) {
			continue
		}
		sf := SourceFile{Name: name}
		if m, ok := family.Match(name); ok {
			sf.Tag, sf.Sequence = m.Tag, m.Sequence
		}
		out = append(out, sf)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence > out[j].Sequence
		}
		return out[i].Name < out[j].Name
	})
	return out
}
