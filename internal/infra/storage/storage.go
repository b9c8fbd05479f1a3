// Package storage persists generated and uploaded spreadsheets. The
// domain only ever lists a directory, reads a file, or creates a new
// file that must not exist yet.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/mahdibujari75/Sampling-App/internal/domain/jalali"
)

var (
	ErrNotFound = errors.New("storage: file not found")
	ErrExists   = errors.New("storage: file already exists")
)

// Store is a directory tree of files addressed by slash separated paths.
type Store interface {
	// List returns the file names in dir. A missing dir is empty.
	List(ctx context.Context, dir string) ([]string, error)
	Get(ctx context.Context, dir, name string) ([]byte, error)
	// Create writes a new file and fails with ErrExists instead of
	// overwriting.
	Create(ctx context.Context, dir, name string, data []byte) error
}

// Scope identifies one document folder of a subproject.
type Scope struct {
	CustomerSlug   string
	SubprojectCode string
	Folder         string
}

func (s Scope) Validate() error {
	if segment(s.CustomerSlug) == "" || segment(s.SubprojectCode) == "" || segment(s.Folder) == "" {
		return fmt.Errorf("storage: incomplete scope %+v", s)
	}
	return nil
}

// Dir resolves the scope to projects/<customer>/<subproject>/<folder>.
func (s Scope) Dir() string {
	return path.Join("projects", segment(s.CustomerSlug), segment(s.SubprojectCode), segment(s.Folder))
}

func (s Scope) String() string { return s.Dir() }

// DayDir is the folder of the day level documents of a production date.
func DayDir(date string) string {
	return path.Join("production", segment(jalali.Folder(date)))
}

// segment makes s safe to use as one path element.
func segment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}

// ValidName rejects names that would leave their directory.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\\x00")
}
