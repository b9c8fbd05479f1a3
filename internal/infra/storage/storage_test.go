package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestScopeDir(t *testing.T) {
	s := Scope{CustomerSlug: "acme", SubprojectCode: "302-F", Folder: "RMC"}
	if got := s.Dir(); got != "projects/acme/302-F/RMC" {
		t.Fatalf("Dir = %q", got)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := Scope{CustomerSlug: "..", SubprojectCode: "x", Folder: "RMC"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected invalid scope")
	}
	if got := (Scope{CustomerSlug: "a/b", SubprojectCode: "1", Folder: "SCF"}).Dir(); got != "projects/a-b/1/SCF" {
		t.Fatalf("Dir with slash = %q", got)
	}
	if got := DayDir("1404/9/3"); got != "production/1404-09-03" {
		t.Fatalf("DayDir = %q", got)
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	names, err := st.List(ctx, "projects/none")
	if err != nil || len(names) != 0 {
		t.Fatalf("List missing dir = %v, %v", names, err)
	}

	dir := "projects/acme/302C/RMC"
	if err := st.Create(ctx, dir, "b.xlsx", []byte("b")); err != nil {
		t.Fatal(err)
	}
	if err := st.Create(ctx, dir, "a.xlsx", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := st.Create(ctx, dir, "a.xlsx", []byte("again")); !errors.Is(err, ErrExists) {
		t.Fatalf("second Create err = %v, want ErrExists", err)
	}

	names, err = st.List(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"a.xlsx", "b.xlsx"}) {
		t.Fatalf("List = %v", names)
	}

	data, err := st.Get(ctx, dir, "a.xlsx")
	if err != nil || string(data) != "a" {
		t.Fatalf("Get = %q, %v", data, err)
	}
	if _, err := st.Get(ctx, dir, "zz.xlsx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing err = %v", err)
	}
}

func TestLocalStoreRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Create(ctx, "../outside", "x.xlsx", nil); err == nil {
		t.Fatal("expected error for dir outside root")
	}
	if err := st.Create(ctx, "ok", "../x.xlsx", nil); err == nil {
		t.Fatal("expected error for name with separator")
	}
}

func TestLocalStoreConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- st.Create(ctx, "d", "same.xlsx", []byte(fmt.Sprint(i)))
		}(i)
	}
	wg.Wait()
	close(results)
	ok := 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrExists):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d creates succeeded, want 1", ok)
	}
}

func TestObjectKey(t *testing.T) {
	if got := objectKey("docs", "projects/a/1/RMC", "x.xlsx"); got != "docs/projects/a/1/RMC/x.xlsx" {
		t.Fatalf("objectKey = %q", got)
	}
	if got := objectKey("", "production/1404-01-01", ""); got != "production/1404-01-01" {
		t.Fatalf("objectKey = %q", got)
	}
	if contentType("A.XLSX") != xlsxContentType || contentType("a.bin") == xlsxContentType {
		t.Fatal("contentType")
	}
}
