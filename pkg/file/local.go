package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// LocalStorage implements Storage on the local filesystem.
// All operations are confined to baseDir to prevent path traversal attacks.
// Conditional writes are serialized within the process by a mutex; ETags are
// the hex SHA-256 of the content.
type LocalStorage struct {
	baseDir string // Absolute path - all files stored within this directory
	baseURL string // URL prefix for serving files (e.g., "/files/")
	mu      sync.Mutex
}

// LocalConfig configures LocalStorage.
type LocalConfig struct {
	Dir     string `env:"STORAGE_LOCAL_DIR" envDefault:"./data"`
	BaseURL string `env:"STORAGE_BASE_URL" envDefault:"/files/"`
}

// NewLocalStorage creates a new local filesystem storage.
// baseDir is resolved to absolute path and created if it doesn't exist.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	// Must resolve to absolute path for security - prevents relative path confusion
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrFailedToGetAbsolutePath, err)
	}

	if err := os.MkdirAll(absBaseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{
		baseDir: absBaseDir,
		baseURL: baseURL,
	}, nil
}

// Put writes the object through a temporary file and renames it into place,
// so readers never observe partial content.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, opts ...PutOption) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := applyPutOptions(opts)

	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	absPath, err := s.resolvePath(key)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if o.IfNoneMatch || o.IfMatch != "" {
		current, err := hashFile(absPath)
		switch {
		case errors.Is(err, ErrNotFound):
			if o.IfMatch != "" {
				return nil, fmt.Errorf("%w: %s does not exist", ErrPreconditionFailed, key)
			}
		case err != nil:
			return nil, err
		case o.IfNoneMatch:
			return nil, fmt.Errorf("%w: %s already exists", ErrPreconditionFailed, key)
		case normalizeETag(o.IfMatch) != current:
			return nil, fmt.Errorf("%w: %s was modified", ErrPreconditionFailed, key)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmpName, absPath); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	sum := sha256.Sum256(data)
	return &Object{
		Key:         key,
		Size:        int64(len(data)),
		ETag:        hex.EncodeToString(sum[:]),
		ContentType: o.ContentType,
		ModTime:     info.ModTime(),
	}, nil
}

// Get opens the object for reading.
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	key, err := cleanKey(key)
	if err != nil {
		return nil, nil, err
	}
	absPath, err := s.resolvePath(key)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	etag, err := hashFile(absPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	return f, &Object{
		Key:     key,
		Size:    info.Size(),
		ETag:    etag,
		ModTime: info.ModTime(),
	}, nil
}

// Delete removes a single object.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	absPath, err := s.resolvePath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	// Safety check - prevent accidental directory deletion
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, key)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// List walks the directory that contains prefix and returns matching objects.
// Checks context cancellation during the walk to handle large trees.
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix = strings.TrimPrefix(filepath.ToSlash(prefix), "/")
	if strings.Contains(prefix, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, prefix)
	}

	root := s.baseDir
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		dir, err := s.resolvePath(prefix[:i])
		if err != nil {
			return nil, err
		}
		root = dir
	}

	var objects []Object
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}

		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil // Skip entries we can't read
		}
		objects = append(objects, Object{
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadDirectory, err)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// URL returns the public URL for a key.
func (s *LocalStorage) URL(key string) string {
	key = filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(key, "/") {
		return key
	}
	return s.baseURL + key
}

// resolvePath validates and resolves a key within the base directory.
func (s *LocalStorage) resolvePath(key string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}

	// Security check: ensure path stays within baseDir (prevents ../ attacks)
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) && absPath != s.baseDir {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return absPath, nil
}

func hashFile(absPath string) (string, error) {
	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(absPath))
		}
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
