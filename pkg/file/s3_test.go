package file_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/file"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client *MockS3Client) *file.S3Storage {
	t.Helper()
	s, err := file.NewS3Storage(context.Background(), file.S3Config{
		Bucket: "onboarding",
		Region: "eu-west-1",
	}, file.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3Storage(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	tests := []struct {
		name string
		cfg  file.S3Config
		want string
	}{
		{"aws", file.S3Config{Bucket: "b", Region: "us-east-1"}, "https://b.s3.us-east-1.amazonaws.com/k"},
		{"endpoint", file.S3Config{Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:9000/"}, "http://localhost:9000/b/k"},
		{"base url", file.S3Config{Bucket: "b", Region: "us-east-1", BaseURL: "https://cdn.example.com"}, "https://cdn.example.com/k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := file.NewS3Storage(context.Background(), tt.cfg, file.WithS3Client(&MockS3Client{}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.URL("/k"))
		})
	}
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.Key) == "customers/1.json" &&
				aws.ToString(in.IfNoneMatch) == "*" &&
				in.IfMatch == nil &&
				aws.ToString(in.ContentType) == "application/json" &&
				aws.ToInt64(in.ContentLength) == 2
		})).Return(&s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil)

		obj, err := newS3(t, client).Put(context.Background(), "/customers/1.json", strings.NewReader("{}"),
			file.IfNotExists(), file.WithContentType("application/json"))
		require.NoError(t, err)
		assert.Equal(t, "abc", obj.ETag)
		assert.Equal(t, "customers/1.json", obj.Key)
		client.AssertExpectations(t)
	})

	t.Run("if match", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.IfMatch) == `"abc"`
		})).Return(nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"})

		_, err := newS3(t, client).Put(context.Background(), "c.json", strings.NewReader("{}"), file.IfMatch(`W/"abc"`))
		assert.ErrorIs(t, err, file.ErrPreconditionFailed)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		_, err := newS3(t, &MockS3Client{}).Put(context.Background(), "../x", strings.NewReader(""))
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})
}

func TestS3Storage_Get(t *testing.T) {
	t.Parallel()

	modified := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	client := &MockS3Client{}
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "customers/1.json"
	})).Return(&s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(`{"id":"1"}`)),
		ContentLength: aws.Int64(10),
		ETag:          aws.String(`"etag-1"`),
		ContentType:   aws.String("application/json"),
		LastModified:  &modified,
	}, nil)
	client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	s := newS3(t, client)
	data, obj, err := file.ReadAll(context.Background(), s, "customers/1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(data))
	assert.Equal(t, "etag-1", obj.ETag)
	assert.Equal(t, modified, obj.ModTime)

	_, _, err = s.Get(context.Background(), "customers/2.json")
	assert.ErrorIs(t, err, file.ErrNotFound)
}

func TestS3Storage_Delete(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "exists"
	})).Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(&s3.DeleteObjectOutput{}, nil)

	s := newS3(t, client)
	require.NoError(t, s.Delete(context.Background(), "exists"))
	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), file.ErrNotFound)
	client.AssertNumberOfCalls(t, "DeleteObject", 1)
}

func TestS3Storage_List(t *testing.T) {
	t.Parallel()

	client := &MockS3Client{}
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "customers/" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("customers/b.json"), Size: aws.Int64(3), ETag: aws.String(`"b"`)},
			{Key: aws.String("customers/"), Size: aws.Int64(0)},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{{Key: aws.String("customers/a.json"), Size: aws.Int64(5), ETag: aws.String(`"a"`)}},
	}, nil).Once()

	objs, err := newS3(t, client).List(context.Background(), "/customers/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "customers/a.json", objs[0].Key)
	assert.Equal(t, "a", objs[0].ETag)
	assert.Equal(t, "customers/b.json", objs[1].Key)
	client.AssertExpectations(t)
}

func TestS3Storage_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, file.ErrAccessDenied},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, file.ErrServiceUnavailable},
		{"timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, file.ErrRequestTimeout},
		{"conflict", &smithy.GenericAPIError{Code: "ConditionalRequestConflict"}, file.ErrPreconditionFailed},
		{"no bucket", &types.NoSuchBucket{}, file.ErrBucketNotFound},
		{"deadline", context.DeadlineExceeded, file.ErrOperationTimeout},
		{"canceled", context.Canceled, file.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &MockS3Client{}
			client.On("PutObject", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := newS3(t, client).Put(context.Background(), "k", strings.NewReader("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown error keeps cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("network down")
		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, cause)

		_, err := newS3(t, client).Put(context.Background(), "k", strings.NewReader("x"))
		assert.ErrorIs(t, err, cause)
	})
}
