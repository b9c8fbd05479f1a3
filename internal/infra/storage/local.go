package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local keeps files under a root directory on disk.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) dir(dir string) (string, error) {
	p := filepath.Join(l.root, filepath.FromSlash(dir))
	if p != l.root && !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: %q is outside the root", dir)
	}
	return p, nil
}

func (l *Local) file(dir, name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("storage: invalid file name %q", name)
	}
	d, err := l.dir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

func (l *Local) List(_ context.Context, dir string) ([]string, error) {
	d, err := l.dir(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (l *Local) Get(_ context.Context, dir, name string) ([]byte, error) {
	p, err := l.file(dir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s/%s: %w", dir, name, err)
	}
	return data, nil
}

// Create writes to a hidden temp file and links it into place, so the
// final name appears complete or not at all.
func (l *Local) Create(_ context.Context, dir, name string, data []byte) error {
	p, err := l.file(dir, name)
	if err != nil {
		return err
	}
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	if _, err := os.Stat(p); err == nil {
		return ErrExists
	}

	tmp, err := os.CreateTemp(d, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", name, err)
	}
	if err := os.Link(tmp.Name(), p); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("storage: publish %s: %w", name, err)
	}
	return nil
}
