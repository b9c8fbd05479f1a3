package projects

import (
	"fmt"
	"strings"
	"time"

	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/infra/storage"
)

// Type is the material category of a subproject.
type Type string

const (
	TypeCompound Type = "C"
	TypeFilm     Type = "F"
	TypeOther    Type = "O"
)

func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeCompound, TypeFilm, TypeOther:
		return t, nil
	}
	return "", fmt.Errorf("projects: unknown subproject type %q", s)
}

type Customer struct {
	ID        int64
	Slug      string
	Name      string
	CreatedAt time.Time
}

type Subproject struct {
	ID           int64
	CustomerID   int64
	CustomerSlug string
	CustomerName string
	ProjectCode  string
	Code         string // e.g. 302-F
	Type         Type
	Active       bool
	CreatedAt    time.Time
}

// FormulationKind maps the subproject type to its source layout. Other
// subprojects carry no formulation sheets.
func (s Subproject) FormulationKind() (formulation.Kind, error) {
	switch s.Type {
	case TypeCompound:
		return formulation.KindCompound, nil
	case TypeFilm:
		return formulation.KindFilm, nil
	}
	return "", fmt.Errorf("projects: subproject %s has no formulation sheets", s.Code)
}

// Scope is the storage folder of this subproject.
func (s Subproject) Scope(folder string) storage.Scope {
	return storage.Scope{CustomerSlug: s.CustomerSlug, SubprojectCode: s.Code, Folder: folder}
}

// SourceScope is the folder of its formulation sheets (SCF or SFF).
func (s Subproject) SourceScope() (storage.Scope, error) {
	kind, err := s.FormulationKind()
	if err != nil {
		return storage.Scope{}, err
	}
	return s.Scope(kind.Folder()), nil
}
