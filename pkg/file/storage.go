package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Object describes a stored blob.
type Object struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ETag        string    `json:"etag"`
	ContentType string    `json:"content_type,omitempty"`
	ModTime     time.Time `json:"mod_time"`
}

// Storage is a keyed blob store with conditional writes.
type Storage interface {
	// Put writes the object, honouring IfMatch / IfNotExists preconditions.
	Put(ctx context.Context, key string, r io.Reader, opts ...PutOption) (*Object, error)
	// Get opens the object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	// Delete removes the object or returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	// List returns objects whose keys start with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)
	// URL returns the public URL for a key.
	URL(key string) string
}

// PutOptions holds the optional parameters of a Put call.
type PutOptions struct {
	ContentType string
	// IfMatch requires the current object to have this ETag.
	IfMatch string
	// IfNoneMatch requires that no object exists under the key.
	IfNoneMatch bool
}

type PutOption func(*PutOptions)

func WithContentType(ct string) PutOption {
	return func(o *PutOptions) { o.ContentType = ct }
}

// IfMatch makes Put fail with ErrPreconditionFailed unless the stored ETag equals etag.
func IfMatch(etag string) PutOption {
	return func(o *PutOptions) { o.IfMatch = etag }
}

// IfNotExists makes Put fail with ErrPreconditionFailed when the key is taken.
func IfNotExists() PutOption {
	return func(o *PutOptions) { o.IfNoneMatch = true }
}

func applyPutOptions(opts []PutOption) PutOptions {
	o := PutOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ContentType == "" {
		o.ContentType = "application/octet-stream"
	}
	return o
}

// ReadAll reads a whole object into memory.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, *Object, error) {
	rc, obj, err := s.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return data, obj, nil
}

// cleanKey normalizes a key to a relative slash path and rejects traversal.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return cleaned, nil
}

// normalizeETag strips quotes and weak prefixes so ETags from HTTP headers
// compare equal to stored ones.
func normalizeETag(etag string) string {
	return strings.Trim(strings.TrimPrefix(strings.TrimSpace(etag), "W/"), `"`)
}

// Config selects and configures a storage backend.
type Config struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"local"`
	Local  LocalConfig
	S3     S3Config
}

// New builds the backend named by cfg.Driver ("local" or "s3").
func New(ctx context.Context, cfg Config, s3opts ...S3Option) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Local.Dir, cfg.Local.BaseURL)
	case "s3":
		return NewS3Storage(ctx, cfg.S3, s3opts...)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, cfg.Driver)
	}
}
