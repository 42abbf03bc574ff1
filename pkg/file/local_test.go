package file_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/file"
)

func newLocal(t *testing.T) *file.LocalStorage {
	t.Helper()
	s, err := file.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	return s
}

func TestNewLocalStorage(t *testing.T) {
	t.Parallel()

	_, err := file.NewLocalStorage("", "/files")
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	s := newLocal(t)
	assert.Equal(t, "/files/exports/a.html", s.URL("exports/a.html"))
	assert.Equal(t, "/abs/a.html", s.URL("/abs/a.html"))
}

func TestLocalStorage_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newLocal(t)

	obj, err := s.Put(ctx, "customers/1.json", strings.NewReader(`{"id":1}`), file.WithContentType("application/json"))
	require.NoError(t, err)
	assert.Equal(t, "customers/1.json", obj.Key)
	assert.Equal(t, int64(8), obj.Size)
	assert.Len(t, obj.ETag, 64)
	assert.Equal(t, "application/json", obj.ContentType)

	data, got, err := file.ReadAll(ctx, s, "/customers/1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(data))
	assert.Equal(t, obj.ETag, got.ETag)

	// same content, same etag
	again, err := s.Put(ctx, "customers/1.json", strings.NewReader(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, obj.ETag, again.ETag)

	_, _, err = s.Get(ctx, "customers/missing.json")
	assert.ErrorIs(t, err, file.ErrNotFound)
}

func TestLocalStorage_Preconditions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newLocal(t)

	first, err := s.Put(ctx, "c.json", strings.NewReader("v1"), file.IfNotExists())
	require.NoError(t, err)

	_, err = s.Put(ctx, "c.json", strings.NewReader("v1b"), file.IfNotExists())
	assert.ErrorIs(t, err, file.ErrPreconditionFailed)

	second, err := s.Put(ctx, "c.json", strings.NewReader("v2"), file.IfMatch(`"`+first.ETag+`"`))
	require.NoError(t, err)
	assert.NotEqual(t, first.ETag, second.ETag)

	_, err = s.Put(ctx, "c.json", strings.NewReader("v3"), file.IfMatch(first.ETag))
	assert.ErrorIs(t, err, file.ErrPreconditionFailed)

	_, err = s.Put(ctx, "other.json", strings.NewReader("x"), file.IfMatch(first.ETag))
	assert.ErrorIs(t, err, file.ErrPreconditionFailed)

	data, _, err := file.ReadAll(ctx, s, "c.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestLocalStorage_ConcurrentCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newLocal(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Put(ctx, "race.json", strings.NewReader("x"), file.IfNotExists())
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, file.ErrPreconditionFailed)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}

func TestLocalStorage_DeleteList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newLocal(t)

	for _, key := range []string{"customers/b.json", "customers/a.json", "exports/a.html", "customers-archive/x.json"} {
		_, err := s.Put(ctx, key, strings.NewReader(key))
		require.NoError(t, err)
	}

	objs, err := s.List(ctx, "customers/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "customers/a.json", objs[0].Key)
	assert.Equal(t, "customers/b.json", objs[1].Key)

	objs, err = s.List(ctx, "customers")
	require.NoError(t, err)
	assert.Len(t, objs, 3)

	objs, err = s.List(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, objs)

	require.NoError(t, s.Delete(ctx, "customers/a.json"))
	assert.ErrorIs(t, s.Delete(ctx, "customers/a.json"), file.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "customers"), file.ErrInvalidPath)
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newLocal(t)

	tests := []string{"../escape.txt", "a/../../escape.txt", "", "/"}
	for _, key := range tests {
		_, err := s.Put(ctx, key, strings.NewReader("x"))
		assert.ErrorIs(t, err, file.ErrInvalidPath, key)
	}

	_, err := s.List(ctx, "../")
	assert.ErrorIs(t, err, file.ErrInvalidPath)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLocalStorage_Errors(t *testing.T) {
	t.Parallel()
	s := newLocal(t)

	_, err := s.Put(context.Background(), "x", failingReader{})
	assert.ErrorIs(t, err, file.ErrFailedToReadFile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "x", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := file.New(context.Background(), file.Config{Local: file.LocalConfig{Dir: t.TempDir(), BaseURL: "/f/"}})
	require.NoError(t, err)
	assert.IsType(t, &file.LocalStorage{}, s)

	_, err = file.New(context.Background(), file.Config{Driver: "ftp"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	_, err = file.New(context.Background(), file.Config{Driver: "s3"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)
}
