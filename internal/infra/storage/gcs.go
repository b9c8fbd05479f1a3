package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GCS keeps files as objects of one bucket under an optional prefix.
type GCS struct {
	bucket *gcs.BucketHandle
	prefix string
}

// DialGCS opens a client. Without a credentials file the default
// application credentials are used.
func DialGCS(ctx context.Context, credentialsFile string) (*gcs.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	return gcs.NewClient(ctx, opts...)
}

func NewGCS(client *gcs.Client, bucket, prefix string) *GCS {
	return &GCS{bucket: client.Bucket(bucket), prefix: strings.Trim(prefix, "/")}
}

func (g *GCS) key(dir, name string) string {
	return objectKey(g.prefix, dir, name)
}

func objectKey(prefix, dir, name string) string {
	return strings.TrimPrefix(path.Join(prefix, dir, name), "/")
}

func (g *GCS) List(ctx context.Context, dir string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	prefix := g.key(dir, "") + "/"
	it := g.bucket.Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})
	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("storage: list %s: %w", dir, err)
		}
		if attrs.Prefix != "" {
			continue
		}
		out = append(out, path.Base(attrs.Name))
	}
	sort.Strings(out)
	return out, nil
}

func (g *GCS) Get(ctx context.Context, dir, name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("storage: invalid file name %q", name)
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	r, err := g.bucket.Object(g.key(dir, name)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open %s/%s: %w", dir, name, err)
	}
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s/%s: %w", dir, name, err)
	}
	return data, nil
}

// Create uses a DoesNotExist precondition; a lost race comes back from
// the server as 412.
func (g *GCS) Create(ctx context.Context, dir, name string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("storage: invalid file name %q", name)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	obj := g.bucket.Object(g.key(dir, name)).If(gcs.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType(name)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return mapWriteErr(dir, name, err)
	}
	if err := w.Close(); err != nil {
		return mapWriteErr(dir, name, err)
	}
	return nil
}

func mapWriteErr(dir, name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return ErrExists
	}
	return fmt.Errorf("storage: write %s/%s: %w", dir, name, err)
}

func contentType(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return xlsxContentType
	}
	return "application/octet-stream"
}
