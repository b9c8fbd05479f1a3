package versioning

import (
	"fmt"
	"strings"
)

// DocType is the document type vocabulary used in file names.
type DocType string

const (
	DocSF  DocType = "SF"
	DocRMC DocType = "RMC"
	DocRMF DocType = "RMF"
	DocRMR DocType = "RMR"
)

// ParseDocType accepts any case.
func ParseDocType(s string) (DocType, error) {
	switch t := DocType(strings.ToUpper(strings.TrimSpace(s))); t {
	case DocSF, DocRMC, DocRMF, DocRMR:
		return t, nil
	}
	return "", fmt.Errorf("versioning: unknown document type %q", s)
}

// Folder is the subproject folder holding documents of this type.
func (t DocType) Folder() string { return string(t) }
